package llm

import (
	"errors"
	"fmt"
)

// Provider failure classes the retry loop distinguishes. Timeouts are
// retried in place; rate-limit and auth failures abort the loop.
var (
	ErrTimeout     = errors.New("llm: request timed out")
	ErrRateLimited = errors.New("llm: rate limited")
	ErrAuth        = errors.New("llm: authentication failed")
)

// SchemaValidationError reports model output that decoded as JSON but did
// not conform to the requested schema. Raw carries the offending content so
// the caller can feed it back as a corrective turn.
type SchemaValidationError struct {
	Raw string
	Err error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("llm: response failed schema validation: %v", e.Err)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}
