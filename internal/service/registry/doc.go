// Package registry owns the alarm collection and the settings record.
//
// The Registry persists both records through a Repository and keeps exactly
// one trigger registered with a trigger.Service for every active alarm that
// has a future occurrence. Mutations log collaborator failures instead of
// returning them: the in-memory state stays authoritative for the rest of
// the process lifetime.
//
// Construct a single Registry at process start, call Init to load the
// persisted records and re-register triggers, then share it with every
// transport.
package registry
