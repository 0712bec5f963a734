package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freightctl/ftl-extractor/internal/llm"
)

// Complete implements llm.ChatClient against the chat/completions endpoint.
// The target schema rides along as a trailing system turn and the response
// is validated locally before being returned, so callers only ever see
// schema-conformant content or a typed error.
func (c *Client) Complete(ctx context.Context, msgs []llm.Message, schema map[string]any) ([]byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.complete.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"turns", len(msgs),
	)

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages":        buildMessages(msgs, schema),
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("llm.complete.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.complete.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.complete.no_choices",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("no choices in chat response")
	}
	content := strings.TrimSpace(cc.Choices[0].Message.Content)

	if err := llm.ValidateJSONAgainstSchema(schema, []byte(content)); err != nil {
		c.logger.Warn("llm.complete.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, &llm.SchemaValidationError{Raw: content, Err: err}
	}

	c.logger.Info("llm.complete.ok",
		"req_id", rid, "content_bytes", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return []byte(content), nil
}

func (c *Client) post(ctx context.Context, endpoint string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", llm.ErrTimeout, err)
		}
		return nil, fmt.Errorf("chat http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("chat response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", llm.ErrRateLimited, resp.StatusCode)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", llm.ErrAuth, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("chat status %d: %s", resp.StatusCode, raw)
	}
	return raw, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}

// buildMessages converts conversation turns to the wire shape. Turns with an
// image payload become multi-part content with an inline data URL; the
// schema is appended as a final system turn the way the response_format
// json_object mode expects.
func buildMessages(msgs []llm.Message, schema map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(msgs)+1)
	for _, m := range msgs {
		if m.ImageB64 != "" {
			out = append(out, map[string]any{
				"role": string(m.Role),
				"content": []map[string]any{
					{"type": "text", "text": m.Text},
					{
						"type":      "image_url",
						"image_url": map[string]any{"url": "data:image/jpeg;base64," + m.ImageB64},
					},
				},
			})
			continue
		}
		out = append(out, map[string]any{
			"role":    string(m.Role),
			"content": m.Text,
		})
	}
	out = append(out, map[string]any{
		"role":    string(llm.RoleSystem),
		"content": "Return ONLY JSON that matches this JSON Schema:\n" + mustJSON(schema),
	})
	return out
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
