// Package alarm exposes the alarm registry over a JSON REST API.
//
// Routes are served by a chi router with CORS handling from rs/cors and a
// request logger that colours status codes. Bodies use the same JSON shapes
// as the persisted documents: alarms, patches and settings.
package alarm
