// Package ledger persists delivery completions and pass history in SQLite.
//
// Delivery is at-least-once: a document stays in its source folder until every
// required backend accepts it, so a pass that half-succeeds will retry. The
// ledger narrows the retry to the actions that have not yet succeeded, keyed
// by content hash so the guarantee survives renames. Rows are cleared once the
// document reaches done/; rows that linger mark the window between successful
// delivery and relocation, which the status command surfaces.
package ledger
