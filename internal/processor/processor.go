package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"paperflow/internal/backends"
	"paperflow/internal/classification"
	"paperflow/internal/config"
	"paperflow/internal/logging"
)

// Ledger is the completion-ledger surface the processor consults. A nil
// Ledger disables deduplication and every required action is attempted.
type Ledger interface {
	IsComplete(ctx context.Context, contentHash string, action classification.Action) (bool, error)
	MarkComplete(ctx context.Context, contentHash string, action classification.Action, filename, passID string) error
}

// Outcome is the result of one required action for one document in one pass.
type Outcome struct {
	Action classification.Action
	// AlreadyDelivered marks an action skipped because the ledger recorded a
	// prior success for this content. It counts as success.
	AlreadyDelivered bool
	Err              error
}

// Result aggregates the outcomes of all required actions for one document.
type Result struct {
	Document backends.Document
	Outcomes []Outcome
}

// AllSucceeded reports whether every required action succeeded (or was
// already delivered). Only then may the document be relocated.
func (r Result) AllSucceeded() bool {
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			return false
		}
	}
	return len(r.Outcomes) > 0
}

// Failures returns the outcomes that failed.
func (r Result) Failures() []Outcome {
	var out []Outcome
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			out = append(out, outcome)
		}
	}
	return out
}

// Processor executes the required delivery actions for one document. Actions
// are evaluated independently and each is attempted at most once per pass: a
// failing email never prevents the document API upload from being tried, and
// vice versa.
type Processor struct {
	registry backends.Registry
	ledger   Ledger
	timeout  time.Duration
	logger   *slog.Logger
}

// New constructs a processor over the configured backend registry.
func New(cfg *config.Config, registry backends.Registry, ledger Ledger, logger *slog.Logger) *Processor {
	timeout := time.Duration(cfg.Workflow.DeliveryTimeout) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Processor{
		registry: registry,
		ledger:   ledger,
		timeout:  timeout,
		logger:   logging.NewComponentLogger(logger, "processor"),
	}
}

// Process runs every required action for the document and aggregates the
// outcomes. It performs no filesystem mutation; relocation is the scanner's
// call, gated on AllSucceeded.
func (p *Processor) Process(ctx context.Context, doc backends.Document) Result {
	ctx = backends.WithDocumentName(ctx, doc.Filename)
	ctx = backends.WithFolder(ctx, doc.Class.Folder())
	logger := logging.WithContext(ctx, p.logger)

	actions := classification.Actions(doc.Class)
	result := Result{
		Document: doc,
		Outcomes: make([]Outcome, 0, len(actions)),
	}

	for _, action := range actions {
		result.Outcomes = append(result.Outcomes, p.runAction(ctx, logger, doc, action))
	}

	if result.AllSucceeded() {
		logger.Info("document fully delivered", logging.Int("actions", len(actions)))
	} else {
		for _, failure := range result.Failures() {
			logger.Error("delivery action failed",
				logging.String(logging.FieldAction, string(failure.Action)),
				logging.Error(failure.Err),
			)
		}
	}
	return result
}

func (p *Processor) runAction(ctx context.Context, logger *slog.Logger, doc backends.Document, action classification.Action) Outcome {
	outcome := Outcome{Action: action}

	if p.ledger != nil {
		done, err := p.ledger.IsComplete(ctx, doc.ContentHash, action)
		if err != nil {
			logger.Warn("ledger lookup failed, delivering anyway", logging.String(logging.FieldAction, string(action)), logging.Error(err))
		} else if done {
			outcome.AlreadyDelivered = true
			logger.Info("action already delivered, skipping", logging.String(logging.FieldAction, string(action)))
			return outcome
		}
	}

	backend, ok := p.registry.Resolve(action)
	if !ok {
		outcome.Err = backends.Wrap(backends.ErrConfiguration, "processor", "resolve backend", fmt.Sprintf("no backend for action %q", action), nil)
		return outcome
	}

	deliverCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := backend.Deliver(deliverCtx, doc); err != nil {
		outcome.Err = err
		return outcome
	}

	if p.ledger != nil {
		passID, _ := backends.PassIDFromContext(ctx)
		if err := p.ledger.MarkComplete(ctx, doc.ContentHash, action, doc.Filename, passID); err != nil {
			// The delivery itself succeeded; a ledger write failure only
			// costs dedup on a future retry.
			logger.Warn("failed to record delivery in ledger", logging.String(logging.FieldAction, string(action)), logging.Error(err))
		}
	}
	logger.Info("action delivered", logging.String(logging.FieldAction, string(action)))
	return outcome
}
