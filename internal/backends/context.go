package backends

import "context"

type contextKey string

const (
	passIDKey       contextKey = "pass_id"
	documentNameKey contextKey = "document"
	folderKey       contextKey = "folder"
)

// WithPassID annotates context with the pass identifier.
func WithPassID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, passIDKey, id)
}

// PassIDFromContext extracts the pass identifier if present.
func PassIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(passIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithDocumentName annotates context with the document filename.
func WithDocumentName(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, documentNameKey, name)
}

// DocumentNameFromContext extracts the document filename if present.
func DocumentNameFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(documentNameKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithFolder annotates context with the source folder name.
func WithFolder(ctx context.Context, folder string) context.Context {
	if folder == "" {
		return ctx
	}
	return context.WithValue(ctx, folderKey, folder)
}

// FolderFromContext extracts the source folder name if present.
func FolderFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(folderKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
