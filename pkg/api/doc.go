// Package api assembles the HTTP server: the middleware pipeline, every
// route handler, and the dashboard summary endpoint.
package api
