package extract

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/freightctl/ftl-extractor/constants"
	"github.com/freightctl/ftl-extractor/internal/entity"
	"github.com/freightctl/ftl-extractor/internal/llm"
)

// DefaultMaxAttempts bounds the self-correction loop: schema failures and
// timeouts each consume one attempt.
const DefaultMaxAttempts = 3

// Gateway wraps the chat client with a bounded self-correcting retry loop.
// It never surfaces an error: every failure path degrades to an explicit
// empty order list, and downstream validation reports the emptiness. That
// keeps the pipeline fail-open so a broken provider still yields a
// deterministic, reviewable run.
type Gateway struct {
	client      llm.ChatClient
	logger      *slog.Logger
	maxAttempts int
	now         func() time.Time
}

func NewGateway(client llm.ChatClient, logger *slog.Logger, maxAttempts int) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Gateway{
		client:      client,
		logger:      logger,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Extract runs the extraction conversation for one document payload and
// returns zero or more orders. The conversation starts as system rules plus
// one user turn (text or image); each schema failure appends the invalid
// response and a corrective turn before the next attempt.
func (g *Gateway) Extract(ctx context.Context, content string, kind constants.PayloadKind) entity.OrderResponse {
	schema := llm.BuildOrderJSONSchema()
	msgs := []llm.Message{
		llm.TextMessage(llm.RoleSystem, llm.BuildSystemPrompt(g.now())),
	}
	if kind == constants.PayloadImage {
		msgs = append(msgs, llm.ImageMessage(llm.ImageUserPrompt, content))
	} else {
		msgs = append(msgs, llm.TextMessage(llm.RoleUser, llm.TextUserPrompt(content)))
	}

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		g.logger.Info("extract.attempt", "attempt", attempt, "max", g.maxAttempts, "kind", kind)

		raw, err := g.client.Complete(ctx, msgs, schema)
		if err == nil {
			var resp entity.OrderResponse
			if uerr := json.Unmarshal(raw, &resp); uerr != nil {
				// Content passed schema validation but won't decode into the
				// order model; treat like a schema failure and self-correct.
				g.logger.Warn("extract.decode_failed", "attempt", attempt, "error", uerr)
				msgs = appendCorrection(msgs, string(raw), uerr)
				continue
			}
			if resp.Orders == nil {
				resp.Orders = []entity.FTLOrder{}
			}
			g.logger.Info("extract.ok", "attempt", attempt, "orders", len(resp.Orders))
			return resp
		}

		var sv *llm.SchemaValidationError
		switch {
		case errors.As(err, &sv):
			g.logger.Warn("extract.schema_invalid", "attempt", attempt, "error", sv.Err)
			msgs = appendCorrection(msgs, sv.Raw, sv.Err)
		case errors.Is(err, llm.ErrTimeout):
			// Timed out; try again with the conversation as-is.
			g.logger.Warn("extract.timeout", "attempt", attempt)
		case errors.Is(err, llm.ErrRateLimited):
			g.logger.Error("extract.rate_limited", "attempt", attempt)
			return emptyResult(g.logger)
		case errors.Is(err, llm.ErrAuth):
			g.logger.Error("extract.auth_failed", "attempt", attempt)
			return emptyResult(g.logger)
		default:
			g.logger.Error("extract.provider_error", "attempt", attempt, "error", err)
			return emptyResult(g.logger)
		}
	}

	g.logger.Error("extract.attempts_exhausted", "max", g.maxAttempts)
	return emptyResult(g.logger)
}

func appendCorrection(msgs []llm.Message, badResponse string, cause error) []llm.Message {
	return append(msgs,
		llm.TextMessage(llm.RoleAssistant, badResponse),
		llm.TextMessage(llm.RoleUser, llm.CorrectivePrompt(cause)),
	)
}

// emptyResult is the explicit no-orders outcome. Validation turns it into a
// "No orders found in file" review entry.
func emptyResult(logger *slog.Logger) entity.OrderResponse {
	logger.Warn("extract.empty_result")
	return entity.OrderResponse{Orders: []entity.FTLOrder{}}
}
