// Package http implements the HTTP transport layer of the notes server.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Cross-cutting concerns such as authentication, request tracing, access
// logging, metrics, CORS, compression and rate limiting are handled in this
// package before requests are delegated to the service layer. Every error
// response has the body {"error": "<message>"}.
package http
