// Package watcher polls the daemon for the next alarm and reports changes.
package watcher
