package validate

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/freightctl/ftl-extractor/constants"
	"github.com/freightctl/ftl-extractor/internal/entity"
)

// Issue is one validation finding for a specific order/field pair. Issues
// are produced only here, immutable once created, and consumed only by the
// router.
type Issue struct {
	OrderIndex   int    `json:"order_index"`
	Field        string `json:"field"`
	Issue        string `json:"issue"`
	CurrentValue any    `json:"current_value"`
}

// Engine runs the three guardrail layers over every extracted order:
// completeness (is data missing?), confidence (is the model guessing?), and
// physics (is the data logical?). Findings are data, never errors; there is
// no early exit, so every order is fully checked.
type Engine struct {
	logger    *slog.Logger
	threshold float64
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, threshold: constants.ConfidenceThreshold}
}

// Validate checks all orders and returns the concatenated findings in a
// fixed order: per order, completeness then confidence then physics. An
// empty order list yields exactly one synthetic "general" issue and skips
// the layers.
func (e *Engine) Validate(orders []entity.FTLOrder) []Issue {
	if len(orders) == 0 {
		e.logger.Warn("validate.no_orders")
		return []Issue{{
			OrderIndex:   0,
			Field:        "general",
			Issue:        "No orders found in file",
			CurrentValue: nil,
		}}
	}

	var issues []Issue
	for i := range orders {
		order := &orders[i]
		issues = append(issues, e.checkCompleteness(order, i)...)
		issues = append(issues, e.checkConfidence(order, i)...)
		issues = append(issues, e.checkPhysics(order, i)...)
	}

	if len(issues) > 0 {
		e.logger.Warn("validate.done", "orders", len(orders), "issues", len(issues))
	} else {
		e.logger.Info("validate.clean", "orders", len(orders))
	}
	return issues
}

// checkCompleteness ensures every field in the required set is present and
// carries a non-null value.
func (e *Engine) checkCompleteness(order *entity.FTLOrder, index int) []Issue {
	var issues []Issue
	for _, name := range constants.RequiredFields {
		fv, ok := order.Field(name)
		if !ok || !fv.Present {
			issues = append(issues, Issue{
				OrderIndex:   index,
				Field:        name,
				Issue:        "Field is missing",
				CurrentValue: nil,
			})
			continue
		}
		if fv.Value == nil {
			issues = append(issues, Issue{
				OrderIndex:   index,
				Field:        name,
				Issue:        "Missing required value",
				CurrentValue: nil,
			})
		}
	}
	return issues
}

// checkConfidence flags values the model was uncertain about. It runs over
// every present field, not just the required set: optional fields with shaky
// values also deserve a human look. Null values are exempt; completeness
// already covers those.
func (e *Engine) checkConfidence(order *entity.FTLOrder, index int) []Issue {
	var issues []Issue
	for _, fv := range order.Fields() {
		if !fv.Present || fv.Value == nil {
			continue
		}
		if fv.Confidence < e.threshold {
			issues = append(issues, Issue{
				OrderIndex:   index,
				Field:        fv.Name,
				Issue:        fmt.Sprintf("Low Confidence (%.2f)", fv.Confidence),
				CurrentValue: fv.Value,
			})
		}
	}
	return issues
}

// checkPhysics applies domain sanity rules: positive weight, at least one
// vehicle. Non-coercible values are skipped silently; upstream schema
// validation already enforced types.
func (e *Engine) checkPhysics(order *entity.FTLOrder, index int) []Issue {
	var issues []Issue

	if fv, ok := order.Field(constants.FieldTotalWeight); ok && fv.Present && fv.Value != nil {
		if weight, ok := coerceFloat(fv.Value); ok && weight <= 0 {
			issues = append(issues, Issue{
				OrderIndex:   index,
				Field:        constants.FieldTotalWeight,
				Issue:        "Weight must be positive",
				CurrentValue: weight,
			})
		}
	}

	if fv, ok := order.Field(constants.FieldNumberOfVehicle); ok && fv.Present && fv.Value != nil {
		if count, ok := coerceInt(fv.Value); ok && count < 1 {
			issues = append(issues, Issue{
				OrderIndex:   index,
				Field:        constants.FieldNumberOfVehicle,
				Issue:        "Vehicle count must be at least 1",
				CurrentValue: fv.Value,
			})
		}
	}

	return issues
}

func coerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	return 0, false
}

func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(t)
		return n, err == nil
	}
	return 0, false
}
