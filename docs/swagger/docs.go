// Package swagger registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/start.go -o docs/swagger
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/quests": {
            "get": {
                "produces": ["application/json"],
                "tags": ["quests"],
                "summary": "List Quests",
                "parameters": [
                    {"type": "string", "description": "Zone", "name": "zone", "in": "query"},
                    {"type": "string", "description": "Category (Main, Side, Group...)", "name": "category", "in": "query"},
                    {"type": "boolean", "description": "Main story only", "name": "main", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"},
                    {"type": "integer", "description": "Page size (max 500)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/quests/sources": {
            "get": {
                "produces": ["application/json"],
                "tags": ["quests"],
                "summary": "Source Availability",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}}
            }
        },
        "/quests/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["quests"],
                "summary": "Get Quest",
                "parameters": [{"type": "integer", "description": "Quest ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Invalid ID", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sync/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Sync Status",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/sync/scan": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Scan",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "409": {"description": "Busy", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sync/plan": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Apply Preview",
                "parameters": [
                    {"type": "boolean", "description": "Consider unchanged records too", "name": "full", "in": "query"},
                    {"type": "boolean", "description": "Repair missing artifacts of unchanged records", "name": "repair", "in": "query"},
                    {"type": "string", "description": "Comma separated quest ids", "name": "ids", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}},
                    "409": {"description": "No pending scan", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sync/apply": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Apply",
                "parameters": [
                    {"type": "boolean", "description": "Consider unchanged records too", "name": "full", "in": "query"},
                    {"type": "boolean", "description": "Export written artifacts to object storage", "name": "export", "in": "query"},
                    {"type": "boolean", "description": "Repair missing artifacts of unchanged records", "name": "repair", "in": "query"},
                    {"type": "string", "description": "Comma separated quest ids", "name": "ids", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "No pending scan or busy", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sync/snapshot": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Reset Snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Busy", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/artifacts/rebuild": {
            "post": {
                "produces": ["application/json"],
                "tags": ["artifacts"],
                "summary": "Rebuild Artifact Index",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "409": {"description": "Busy", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/artifacts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["artifacts"],
                "summary": "Quest Artifacts",
                "parameters": [{"type": "integer", "description": "Quest ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}},
                    "400": {"description": "Invalid ID", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Quest Sync API",
	Description:      "Reconciled quest catalog and narration audio sync.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
