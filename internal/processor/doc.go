// Package processor executes the delivery actions a document's source folder
// requires. Every action is attempted independently; a document is considered
// done only when all of its actions have succeeded, and previously recorded
// deliveries of identical content are skipped via the completion ledger.
package processor
