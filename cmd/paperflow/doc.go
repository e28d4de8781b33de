// Package main hosts the paperflow CLI entrypoint and command graph.
//
// The Cobra-based command tree covers one-shot processing (run), foreground
// continuous processing (watch), backlog and ledger inspection (status),
// configuration scaffolding (config), and notification checks (test-notify).
// It centralizes configuration resolution and logging setup so subcommands can
// focus on user experience instead of wiring.
package main
