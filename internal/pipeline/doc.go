// Package pipeline orchestrates one pass over the process folder: scan the
// classification folders, run every required delivery action per document,
// relocate fully delivered files into done/, and record the pass outcome.
// Failed documents stay where they are and get retried on the next pass.
package pipeline
