// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors produced by the transport layer itself, before a request
// reaches the service layer. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidRequestBody is returned when the body is not a JSON object of
	// the expected shape.
	ErrInvalidRequestBody = errors.New("invalid request body")

	// ErrInvalidNoteID is returned when the {id} path segment is not a
	// positive integer.
	ErrInvalidNoteID = errors.New("invalid note id")

	// ErrNoClaimsInContext is returned when an authenticated route runs
	// without the auth middleware.
	ErrNoClaimsInContext = errors.New("no session claims in request context")
)

// User-facing messages that do not come from the error table.
const (
	msgNoToken         = "No token provided. Access denied."
	msgInvalidToken    = "Token is invalid."
	msgInvalidBody     = "Invalid request body."
	msgTooManyRequests = "Too many requests."
	msgNotFound        = "Not found."
)
