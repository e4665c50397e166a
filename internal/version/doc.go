// Package version exposes build metadata of the alarm clock binaries.
//
// Version, Commit and BuildTime are injected through ldflags and keep
// placeholder values for local builds. The daemon logs Short on start-up
// and both binaries expose Full through a cobra `version` subcommand.
package version
