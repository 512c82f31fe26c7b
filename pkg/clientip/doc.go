// Package clientip resolves the address of the client behind proxies.
//
// GetIP consults the proxy headers in DefaultHeaders order and falls back to
// the connection's remote address. Middleware stores the result in the
// request context, where the rate limiter and the logger pick it up.
package clientip
