package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"paperflow/internal/backends"
	"paperflow/internal/classification"
	"paperflow/internal/config"
	"paperflow/internal/ledger"
	"paperflow/internal/logging"
	"paperflow/internal/notifications"
	"paperflow/internal/processor"
	"paperflow/internal/scanner"
)

// PassLedger is the ledger surface one pass needs: per-action dedup for the
// processor plus document cleanup and pass history. *ledger.Store satisfies
// it; nil disables the ledger entirely.
type PassLedger interface {
	processor.Ledger
	ClearDocument(ctx context.Context, contentHash string) error
	RecordPass(ctx context.Context, pass ledger.Pass) error
}

// Pipeline runs complete passes: scan the source folders, deliver every
// discovered document, relocate the fully delivered ones.
type Pipeline struct {
	cfg       *config.Config
	scanner   *scanner.Scanner
	processor *processor.Processor
	store     PassLedger
	notifier  notifications.Service
	logger    *slog.Logger
}

// New wires a pipeline over the given backend registry. store and notifier
// may be nil (notifier nil means silent).
func New(cfg *config.Config, registry backends.Registry, store PassLedger, notifier notifications.Service, logger *slog.Logger) *Pipeline {
	if notifier == nil {
		notifier = notifications.NewService(&config.Config{}, nil)
	}
	return &Pipeline{
		cfg:       cfg,
		scanner:   scanner.New(cfg, logger),
		processor: processor.New(cfg, registry, store, logger),
		store:     store,
		notifier:  notifier,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Failure describes one delivery action that failed during a pass.
type Failure struct {
	Filename string
	Folder   string
	Action   classification.Action
	Err      error
}

// Summary is the outcome of one pass.
type Summary struct {
	PassID             string
	StartedAt          time.Time
	FinishedAt         time.Time
	Discovered         int
	Succeeded          int
	Failed             int
	Skipped            int
	RelocationFailures int
	Failures           []Failure
}

// Duration is the wall-clock time the pass took.
func (s Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Clean reports whether the pass finished with nothing to complain about.
func (s Summary) Clean() bool {
	return s.Failed == 0 && s.RelocationFailures == 0
}

type documentResult struct {
	doc           backends.Document
	result        processor.Result
	relocationErr error
}

// Run executes one full pass. A non-nil error means the pass could not run at
// all (scan failure, cancelled context); delivery failures are reported
// through the Summary instead so the remaining documents still get their
// attempt.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary := Summary{
		PassID:    uuid.NewString(),
		StartedAt: time.Now(),
	}
	ctx = backends.WithPassID(ctx, summary.PassID)
	logger := logging.WithContext(ctx, p.logger)

	scanResult, err := p.scanner.Scan(ctx)
	if err != nil {
		return summary, err
	}
	summary.Discovered = len(scanResult.Documents)
	summary.Skipped = scanResult.Skipped

	logger.Info("pass started",
		logging.Int("documents", summary.Discovered),
		logging.Int("skipped", summary.Skipped),
	)
	p.publish(ctx, logger, notifications.EventPassStarted, notifications.Payload{
		"count": fmt.Sprintf("%d", summary.Discovered),
	})

	results := make([]documentResult, len(scanResult.Documents))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.parallelism())
	for i, doc := range scanResult.Documents {
		i, doc := i, doc
		group.Go(func() error {
			results[i] = p.processDocument(groupCtx, doc)
			return nil
		})
	}
	// Workers never return errors; Wait only trips on context cancellation.
	if err := group.Wait(); err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	for _, res := range results {
		p.tally(ctx, logger, res, &summary)
	}

	summary.FinishedAt = time.Now()
	p.recordPass(ctx, logger, summary)

	logger.Info("pass completed",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("relocation_failures", summary.RelocationFailures),
		logging.Duration("duration", summary.Duration()),
	)
	p.publish(ctx, logger, notifications.EventPassCompleted, notifications.Payload{
		"succeeded": fmt.Sprintf("%d", summary.Succeeded),
		"failed":    fmt.Sprintf("%d", summary.Failed),
		"duration":  summary.Duration().Round(time.Millisecond).String(),
	})
	return summary, nil
}

func (p *Pipeline) processDocument(ctx context.Context, doc backends.Document) documentResult {
	res := documentResult{doc: doc}
	res.result = p.processor.Process(ctx, doc)
	if !res.result.AllSucceeded() {
		return res
	}
	if _, err := p.scanner.Relocate(doc); err != nil {
		res.relocationErr = err
		return res
	}
	if p.store != nil {
		// The file is out of the source folder now; its ledger rows have
		// served their purpose.
		if err := p.store.ClearDocument(ctx, doc.ContentHash); err != nil {
			logging.WithContext(ctx, p.logger).Warn("failed to clear ledger entries",
				logging.String(logging.FieldDocument, doc.Filename),
				logging.Error(err),
			)
		}
	}
	return res
}

func (p *Pipeline) tally(ctx context.Context, logger *slog.Logger, res documentResult, summary *Summary) {
	if !res.result.AllSucceeded() {
		summary.Failed++
		for _, failure := range res.result.Failures() {
			summary.Failures = append(summary.Failures, Failure{
				Filename: res.doc.Filename,
				Folder:   res.doc.Class.Folder(),
				Action:   failure.Action,
				Err:      failure.Err,
			})
			p.publish(ctx, logger, notifications.EventDocumentFailed, notifications.Payload{
				"document": res.doc.Filename,
				"action":   string(failure.Action),
				"reason":   failure.Err.Error(),
			})
		}
		return
	}
	if res.relocationErr != nil {
		summary.RelocationFailures++
		logger.Error("relocation failed after successful delivery",
			logging.String(logging.FieldDocument, res.doc.Filename),
			logging.Error(res.relocationErr),
		)
		p.publish(ctx, logger, notifications.EventRelocationFailed, notifications.Payload{
			"document": res.doc.Filename,
			"reason":   res.relocationErr.Error(),
		})
		return
	}
	summary.Succeeded++
}

func (p *Pipeline) recordPass(ctx context.Context, logger *slog.Logger, summary Summary) {
	if p.store == nil {
		return
	}
	pass := ledger.Pass{
		ID:                 summary.PassID,
		StartedAt:          summary.StartedAt,
		FinishedAt:         summary.FinishedAt,
		Succeeded:          summary.Succeeded,
		Failed:             summary.Failed,
		Skipped:            summary.Skipped,
		RelocationFailures: summary.RelocationFailures,
	}
	if err := p.store.RecordPass(ctx, pass); err != nil {
		logger.Warn("failed to record pass history", logging.Error(err))
	}
}

func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, event notifications.Event, payload notifications.Payload) {
	if err := p.notifier.Publish(ctx, event, payload); err != nil {
		logger.Warn("notification failed", logging.String("event", string(event)), logging.Error(err))
	}
}

func (p *Pipeline) parallelism() int {
	if p.cfg.Workflow.MaxParallel > 0 {
		return p.cfg.Workflow.MaxParallel
	}
	return 1
}
