// Package records serializes the alarm collection and the settings record
// against a key-value store. Alarms live under the "alarms" key as a JSON
// array and settings under "alarmSettings" as a JSON object.
package records
