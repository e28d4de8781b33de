package logging

import (
	"context"
	"log/slog"

	"paperflow/internal/backends"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldPassID is the standardized structured logging key for pass identifiers.
	FieldPassID = "pass_id"
	// FieldDocument is the standardized structured logging key for document filenames.
	FieldDocument = "document"
	// FieldFolder is the standardized structured logging key for source folder names.
	FieldFolder = "folder"
	// FieldAction is the standardized structured logging key for delivery action names.
	FieldAction = "action"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := backends.PassIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPassID, id))
	}
	if name, ok := backends.DocumentNameFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldDocument, name))
	}
	if folder, ok := backends.FolderFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFolder, folder))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
