// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber app from this Config: Port selects the
// listen address and ApiKey, when set, is enforced by the auth middleware on
// every route except the Swagger UI.
package server
