// Package auth issues and validates the bearer tokens that guard the HTTP
// control plane.
//
// A single API client is configured by id and bcrypt hash of its secret.
// Clients exchange those credentials for a short-lived HS256 JWT, which the
// middleware validates on every operation request.
package auth
