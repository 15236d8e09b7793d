// Package api is the HTTP control plane of the operation processor. Handlers
// decode and validate requests, call service.OperationService or the auth
// services, and write JSON responses. Errors are mapped to status codes in
// one place and never returned to clients verbatim.
package api
