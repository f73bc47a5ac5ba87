// Package route is the HTTP client for the route-solving service and the
// local plumbing around it: loading stop locations from disk and exporting
// the solved turn-by-turn directions.
package route
