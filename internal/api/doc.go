// Package api contains the HTTP handlers for the cost analysis service:
// user registration and login, project analysis, and task cancellation.
// Handlers decode and validate requests, delegate to the service layer, and
// translate service errors into safe JSON responses.
package api
