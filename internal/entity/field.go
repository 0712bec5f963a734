package entity

// ConfidenceField wraps one extracted attribute with the model's confidence
// score and rationale. Value is nil when the model found nothing; producers
// set confidence 0.0 in that case. Fields are created by the extraction
// stage and read-only afterward; the finalize stage reads Value and discards
// the wrapper.
type ConfidenceField[T any] struct {
	Value      *T      `json:"value"`
	Confidence float64 `json:"confidence"`
	Reasoning  *string `json:"reasoning,omitempty"`
}

// NewField builds a populated field.
func NewField[T any](value T, confidence float64) *ConfidenceField[T] {
	return &ConfidenceField[T]{Value: &value, Confidence: confidence}
}

// EmptyField builds a not-found field with confidence 0.
func EmptyField[T any]() *ConfidenceField[T] {
	return &ConfidenceField[T]{}
}

// FieldView is a type-erased, read-only projection of one order field, used
// by the validation and finalize stages which iterate fields by name.
type FieldView struct {
	Name       string
	Present    bool // field exists on the order at all
	Value      any  // nil when absent or explicitly null
	Confidence float64
}

func view[T any](name string, f *ConfidenceField[T]) FieldView {
	fv := FieldView{Name: name}
	if f == nil {
		return fv
	}
	fv.Present = true
	fv.Confidence = f.Confidence
	if f.Value != nil {
		fv.Value = *f.Value
	}
	return fv
}
