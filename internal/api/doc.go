// Package api handles incoming HTTP requests for places and users. Handlers
// decode and validate input, take the caller's identity from the context set
// by middleware.AuthMiddleware, call the service layer, and shape JSON
// responses.
//
// Every failure goes through HandleAPIError, which picks the status code from
// the error's kind and writes {"message", "trace_id"} with a message that is
// safe to show to clients.
package api
