// Package trigger is the boundary to the facility that waits for wall-clock
// instants and surfaces fired alarms to the user.
//
// Service registers and cancels triggers, Permissions answers whether the
// user allows notifications. Local implements both in-process: every
// trigger is a timer that rings through a Ringer and then reports the
// alarm id to a fire handler.
package trigger
