package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the signed token in AuthorizationHeaderName and in
// the token returned by login.
const BearerPrefix = "Bearer "

// RequestIDHeaderName echoes the per-request id assigned by the server.
const RequestIDHeaderName = "X-Request-ID"
