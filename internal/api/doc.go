// Package api adapts HTTP requests to the explorer, experience and narrative
// services. Handlers decode and validate payloads, read the viewer placed in
// the context by the auth middleware, and map service errors to status codes.
package api
