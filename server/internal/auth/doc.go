// Package auth provides authentication middleware for the propdash server.
//
// APIKeyMiddleware(mode, header, key, open...) wraps an http.Handler and
// validates the API key from the named request header.
//
// When mode != "apikey" or key == "", all requests pass through (useful for
// local development with auth disabled). When the key is incorrect or absent,
// the middleware answers 401 immediately. Paths listed in open are never
// checked.
package auth
