// Package backends defines the delivery contract shared by every external
// system paperflow sends documents to, the Document model the pipeline moves
// through it, and the sentinel error taxonomy used to classify failures.
// Concrete backends live in subpackages (paperless, mailer).
package backends
