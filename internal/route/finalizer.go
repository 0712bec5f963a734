package route

import (
	"context"
	"log/slog"

	"github.com/freightctl/ftl-extractor/internal/entity"
	"github.com/freightctl/ftl-extractor/internal/validate"
)

// OrderMetadata locates a rejected order within its source document.
type OrderMetadata struct {
	IndexInFile int    `json:"index_in_file"`
	SourceFile  string `json:"source_file"`
}

// ReviewEntry is the human-facing bundle written to the review queue: the
// raw unflattened order (confidence and reasoning intact) plus exactly its
// accumulated issues.
type ReviewEntry struct {
	OrderMetadata OrderMetadata    `json:"order_metadata"`
	RawData       entity.FTLOrder  `json:"raw_data"`
	Issues        []validate.Issue `json:"issues"`
}

// ArchiveSink receives accepted batches as an optional side channel (e.g. a
// SQL archive). Failures there are logged, never fatal: the JSON collection
// remains the source of truth.
type ArchiveSink interface {
	SaveAccepted(ctx context.Context, source string, entries []map[string]any) error
}

// Finalizer partitions validated orders into the accepted collection and the
// review queue. Only the accepted batch flows back to the caller; rejected
// orders are observable solely through the persisted queue.
type Finalizer struct {
	accepted *Store
	review   *Store
	archive  ArchiveSink
	logger   *slog.Logger
}

func NewFinalizer(accepted, review *Store, archive ArchiveSink, logger *slog.Logger) *Finalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finalizer{accepted: accepted, review: review, archive: archive, logger: logger}
}

// Route partitions orders by issue presence and persists both batches.
// Orders with no issues are flattened (wrappers dropped, dates rewritten to
// DD/MM/YYYY HH:MM); orders with issues are bundled raw. Issues referencing
// an out-of-range order index are ignored.
func (f *Finalizer) Route(ctx context.Context, source string, orders []entity.FTLOrder, issues []validate.Issue) ([]map[string]any, error) {
	if len(orders) == 0 && len(issues) > 0 {
		// Fully failed extraction: persist one synthetic review entry so the
		// run still leaves an inspectable trace in the queue.
		entry := ReviewEntry{
			OrderMetadata: OrderMetadata{IndexInFile: 0, SourceFile: source},
			Issues:        issues,
		}
		if err := f.review.Append([]any{entry}); err != nil {
			return nil, err
		}
		f.logger.Warn("route.review_empty_extraction", "source", source)
		return nil, nil
	}

	issuesByIndex := make(map[int][]validate.Issue, len(orders))
	for i := range orders {
		issuesByIndex[i] = nil
	}
	for _, issue := range issues {
		if _, ok := issuesByIndex[issue.OrderIndex]; ok {
			issuesByIndex[issue.OrderIndex] = append(issuesByIndex[issue.OrderIndex], issue)
		}
	}

	var successBatch []map[string]any
	var reviewBatch []ReviewEntry
	for i := range orders {
		if len(issuesByIndex[i]) == 0 {
			successBatch = append(successBatch, orders[i].Flatten())
			continue
		}
		reviewBatch = append(reviewBatch, ReviewEntry{
			OrderMetadata: OrderMetadata{IndexInFile: i, SourceFile: source},
			RawData:       orders[i],
			Issues:        issuesByIndex[i],
		})
	}

	if len(successBatch) > 0 {
		if err := f.accepted.Append(toAny(successBatch)); err != nil {
			return nil, err
		}
		f.logger.Info("route.accepted", "source", source, "orders", len(successBatch))

		if f.archive != nil {
			if err := f.archive.SaveAccepted(ctx, source, successBatch); err != nil {
				f.logger.Error("route.archive_failed", "source", source, "error", err)
			}
		}
	}
	if len(reviewBatch) > 0 {
		if err := f.review.Append(toAny(reviewBatch)); err != nil {
			return nil, err
		}
		f.logger.Warn("route.review", "source", source, "orders", len(reviewBatch))
	}

	return successBatch, nil
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
