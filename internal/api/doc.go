// Package api exposes the learning service over HTTP.
//
// Every endpoint answers with the JSONResponse envelope. Handlers return a
// Response or an error; domain errors are mapped to HTTPError values in one
// place (errorResponse) so status codes stay consistent across routes.
//
// The caller is identified by the X-User-ID header set by the upstream
// gateway. Admin routes additionally require the admin role.
package api
