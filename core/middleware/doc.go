// Package middleware groups the HTTP middleware of the Fiber application.
//
// # Components
//
//   - auth: API key validation for every protected route.
//   - rayid: a request id (ray id) per request, stored in locals for
//     logger.WithRayID and echoed in the X-Ray-ID response header.
//
// rayid must be registered first so that every later log line is traceable.
package middleware
