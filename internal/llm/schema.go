package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildOrderJSONSchema returns a JSON-Schema (draft 2020-12 subset) for the
// extraction response as a generic map. We pass it to the model as a
// structured-output constraint and also use it locally to validate what
// comes back.
//
// Enum-ish fields (vehicle_type, body_type, pod_type) are deliberately kept
// as loose strings: canonical labels are produced by fuzzy normalization at
// ingestion, and unmatched values must pass through to review rather than
// bounce the whole response.
func BuildOrderJSONSchema() map[string]any {
	orderProps := map[string]any{
		"vehicle_type":                    confidenceProp(nullable("string")),
		"body_type":                       confidenceProp(nullable("string")),
		"pod_type":                        confidenceProp(nullable("string")),
		"number_of_vehicle":               confidenceProp(nullable("integer")),
		"total_weight":                    confidenceProp(nullable("number")),
		"pickup_address":                  confidenceProp(nullable("string")),
		"destination_address":             confidenceProp(nullable("string")),
		"product_category":                confidenceProp(nullable("string")),
		"product_description":             confidenceProp(nullable("string")),
		"pickup_date_and_time":            confidenceProp(nullable("string")),
		"expected_delivery_date_and_time": confidenceProp(nullable("string")),
		"vehicle_size":                    confidenceProp(nullable("string")),
		"shippers_note":                   confidenceProp(nullable("string")),
	}
	required := []string{
		"vehicle_type", "body_type", "number_of_vehicle", "total_weight",
		"pickup_address", "destination_address", "product_category",
		"product_description", "pickup_date_and_time",
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"orders": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties":           orderProps,
					"required":             required,
				},
			},
		},
		"required": []string{"orders"},
	}
}

// confidenceProp wraps a value schema in the value/confidence/reasoning
// envelope every extracted field carries.
func confidenceProp(value map[string]any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"value":      value,
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"reasoning":  nullable("string"),
		},
		"required": []string{"value", "confidence"},
	}
}

func nullable(typ string) map[string]any {
	return map[string]any{"type": []string{typ, "null"}}
}

// ValidateJSONAgainstSchema validates data against schemaMap.
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
