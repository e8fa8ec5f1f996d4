// Package config provides configuration loading, merging, and validation
// facilities for the notes server and its command-line client.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Legacy environment variables (JWT_SECRET, DB_HOST, EMAIL_USER, PORT, ...)
//  2. Environment variables (APP_*, STORAGE_*, SERVER_*, ...)
//  3. Command-line flags
//  4. JSON config file
//
// Defaults are applied to fields that are still zero after merging. The main
// entry points are [GetStructuredConfig] for the server and [GetClientConfig]
// for the client.
package config
