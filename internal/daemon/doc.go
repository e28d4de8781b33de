// Package daemon runs the delivery pipeline continuously. It enforces
// single-instance execution with a file lock, schedules passes on a fixed
// interval, and watches the source folders so new files are picked up without
// waiting out the full interval.
package daemon
