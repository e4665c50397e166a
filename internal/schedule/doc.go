// Package schedule computes alarm occurrences.
//
// NextOccurrence is the pure trigger calculator used by the registry; Upcoming
// and Recurrence expose the same repeat policies as RFC 5545 recurrence rules
// for previews and calendar export.
package schedule
