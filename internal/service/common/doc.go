// Package common holds helpers shared by the alarm clock binaries.
//
// It provides the gRPC client used by the CLI, which speaks domain types,
// applies per-call timeouts and identifies the caller (hostname/username)
// in request metadata.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
