// Package alarm contains core domain types for the alarm clock.
//
// It defines Alarm (a user-defined recurring alarm), its repeat policy and
// time-of-day, the per-installation Settings record and the Draft/Patch types
// used to create and partially update them. Clone helpers avoid leaking
// internal references to callers.
package alarm
