// Package httputil provides shared HTTP helpers for the Falah API:
// JSON response writers, request parsing, and generic middleware such as
// request IDs, logging, panic recovery and CORS.
package httputil
