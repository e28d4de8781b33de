// Package paperless implements the document API delivery backend: a multipart
// upload to the Paperless consume endpoint authenticated with a token header.
package paperless
