package backends

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDelivery marks a backend call that failed or was rejected.
	ErrDelivery = errors.New("delivery error")
	// ErrTimeout marks a backend call cut off by the per-delivery timeout.
	ErrTimeout = errors.New("timeout")
	// ErrRelocation marks a failed move to done/ after successful delivery.
	// It is the highest-severity per-document condition: re-running without
	// the ledger would re-deliver an already-delivered document.
	ErrRelocation = errors.New("relocation error")
	// ErrConfiguration marks settings problems detected at startup.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransient marks incidental failures worth retrying on the next pass.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "backend failure"
	}
	return strings.Join(parts, ": ")
}
