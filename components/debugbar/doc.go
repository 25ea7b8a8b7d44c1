// Package debugbar mounts the debug bar on a net/http application.
//
// Middleware collects a snapshot for every request it wraps and announces its
// identifier in the X-Debugbar-Id response header. The component routes
// serve stored snapshots (open), the merged widget table (widgets), the
// rendered panel (panel) and the embedded front-end assets (assets/).
package debugbar
