// Package logging wires slog with paperflow conventions: a console handler
// that prefixes messages with their component, a JSON handler for structured
// collection, attr helpers, context-derived fields (pass, document, folder),
// and log file retention.
package logging
