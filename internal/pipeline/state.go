package pipeline

import (
	"github.com/freightctl/ftl-extractor/internal/docparse"
	"github.com/freightctl/ftl-extractor/internal/entity"
	"github.com/freightctl/ftl-extractor/internal/validate"
)

// State is the record threaded through one pipeline run. Each stage writes
// only its own section: docparse fills Payload, extraction fills Raw,
// validation fills Issues, finalize fills Accepted. The struct lives for a
// single run and is discarded afterwards; only the finalize outputs persist.
type State struct {
	Source   string
	Payload  docparse.Payload
	Raw      entity.OrderResponse
	Issues   []validate.Issue
	Accepted []map[string]any
}

// Result is the caller-facing summary of one run. Rejected orders are not
// returned in-process; they are observable through the review queue only.
type Result struct {
	Source      string           `json:"source"`
	OrdersFound int              `json:"orders_found"`
	Accepted    []map[string]any `json:"accepted"`
	NeedsReview int              `json:"needs_review"`
	IssuesFound int              `json:"issues_found"`
}
