// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client of the notes server.
//
// Each invocation runs exactly one command (login, notes, add-note, ...)
// against the server through an [adapter.ServerAdapter] and prints the
// result as indented JSON. The session token is never stored on disk; login
// prints it so that it can be exported as NOTES_TOKEN.
package client
