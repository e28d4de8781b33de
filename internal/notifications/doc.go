// Package notifications publishes pipeline events to optional sinks: ntfy
// push for pass lifecycle and failures, and a plain error email for delivery
// or relocation failures. Unconfigured sinks collapse to a noop, and a failed
// notification never fails the pass that produced it.
package notifications
