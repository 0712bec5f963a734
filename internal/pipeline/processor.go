package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/freightctl/ftl-extractor/internal/common"
	"github.com/freightctl/ftl-extractor/internal/docparse"
	"github.com/freightctl/ftl-extractor/internal/extract"
	"github.com/freightctl/ftl-extractor/internal/route"
	"github.com/freightctl/ftl-extractor/internal/validate"
)

// Processor runs the four-stage pipeline for one document: parse -> extract
// -> validate -> finalize. One document is one logical unit of work with no
// internal parallelism; separate documents run in independent Processor
// calls, each owning its State exclusively.
type Processor struct {
	logger  *slog.Logger
	parser  docparse.Parser
	gateway *extract.Gateway
	engine  *validate.Engine
	final   *route.Finalizer
}

func NewProcessor(
	logger *slog.Logger,
	parser docparse.Parser,
	gateway *extract.Gateway,
	engine *validate.Engine,
	final *route.Finalizer,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:  logger,
		parser:  parser,
		gateway: gateway,
		engine:  engine,
		final:   final,
	}
}

// ProcessFile runs the full pipeline on a document at path. Parse failures
// are hard failures for the document; everything after parsing degrades to
// data and the run always completes with an inspectable outcome.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Result, error) {
	runID := common.RequestIDFromContext(ctx)
	if runID == "" {
		runID = uuid.New().String()
		ctx = common.WithRequestID(ctx, runID)
	}
	start := time.Now()
	source := filepath.Base(path)
	log := p.logger.With("run_id", runID, "source", source)

	log.Info("pipeline.start", "path", path)

	payload, err := p.parser.Parse(ctx, path)
	if err != nil {
		log.Error("pipeline.parse_failed", "error", err)
		return Result{}, fmt.Errorf("parse document: %w", err)
	}

	st := State{Source: source, Payload: payload}

	st.Raw = p.gateway.Extract(ctx, st.Payload.Content, st.Payload.Kind)
	log.Info("pipeline.extracted", "orders", len(st.Raw.Orders))

	st.Issues = p.engine.Validate(st.Raw.Orders)

	st.Accepted, err = p.final.Route(ctx, st.Source, st.Raw.Orders, st.Issues)
	if err != nil {
		log.Error("pipeline.finalize_failed", "error", err)
		return Result{}, fmt.Errorf("finalize: %w", err)
	}

	res := Result{
		Source:      st.Source,
		OrdersFound: len(st.Raw.Orders),
		Accepted:    st.Accepted,
		NeedsReview: reviewedCount(len(st.Raw.Orders), len(st.Accepted), st.Issues),
		IssuesFound: len(st.Issues),
	}
	log.Info("pipeline.done",
		"orders", res.OrdersFound,
		"accepted", len(res.Accepted),
		"needs_review", res.NeedsReview,
		"issues", res.IssuesFound,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// reviewedCount counts entries routed to the review queue. A run with zero
// extracted orders still writes one synthetic entry.
func reviewedCount(orders, accepted int, issues []validate.Issue) int {
	if orders == 0 {
		if len(issues) > 0 {
			return 1
		}
		return 0
	}
	return orders - accepted
}
