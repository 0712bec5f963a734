package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalNormalizesEnums(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
		want    string
	}{
		{
			name:    "vehicle substring match",
			payload: `{"vehicle_type":{"value":"LCV Truck","confidence":0.9}}`,
			field:   "vehicle_type",
			want:    "LCV",
		},
		{
			name:    "vehicle case-insensitive",
			payload: `{"vehicle_type":{"value":"hcv (10-wheeler)","confidence":0.85}}`,
			field:   "vehicle_type",
			want:    "HCV",
		},
		{
			name:    "vehicle unmatched passes through",
			payload: `{"vehicle_type":{"value":"10-wheeler","confidence":0.4}}`,
			field:   "vehicle_type",
			want:    "10-wheeler",
		},
		{
			name:    "body open truck",
			payload: `{"body_type":{"value":"Open truck","confidence":0.9}}`,
			field:   "body_type",
			want:    "Open",
		},
		{
			name:    "body reefer",
			payload: `{"body_type":{"value":"refrigerated container","confidence":0.9}}`,
			field:   "body_type",
			want:    "Refrigerated",
		},
		{
			name:    "body closed",
			payload: `{"body_type":{"value":"closed","confidence":0.9}}`,
			field:   "body_type",
			want:    "Closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var order FTLOrder
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &order))

			fv, ok := order.Field(tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.want, fv.Value)
		})
	}
}

func TestUnmarshalCanonicalizesDates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "2026-01-05 14:30", "2026-01-05 14:30"},
		{"iso with seconds", "2026-01-05T14:30:00", "2026-01-05 14:30"},
		{"date only defaults midnight", "2026-01-05", "2026-01-05 00:00"},
		{"written month", "Jan 5, 2026", "2026-01-05 00:00"},
		{"unparseable left as-is", "next tuesday morning", "next tuesday morning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := `{"pickup_date_and_time":{"value":"` + tt.input + `","confidence":1.0}}`
			var order FTLOrder
			require.NoError(t, json.Unmarshal([]byte(payload), &order))
			require.NotNil(t, order.PickupDateTime.Value)
			assert.Equal(t, tt.want, *order.PickupDateTime.Value)
		})
	}
}

func TestFieldsDeclarationOrder(t *testing.T) {
	order := FTLOrder{
		VehicleType: NewField("LCV", 1.0),
		TotalWeight: NewField(4.5, 0.9),
	}

	fields := order.Fields()
	require.Len(t, fields, 13)
	assert.Equal(t, "vehicle_type", fields[0].Name)
	assert.Equal(t, "shippers_note", fields[12].Name)

	// Absent fields stay visible for completeness checks.
	body := fields[1]
	assert.Equal(t, "body_type", body.Name)
	assert.False(t, body.Present)
	assert.Nil(t, body.Value)
}

func TestFieldViewNullValue(t *testing.T) {
	order := FTLOrder{TotalWeight: EmptyField[float64]()}

	fv, ok := order.Field("total_weight")
	require.True(t, ok)
	assert.True(t, fv.Present)
	assert.Nil(t, fv.Value)
	assert.Zero(t, fv.Confidence)
}

func TestFlatten(t *testing.T) {
	reasoning := "stated in row 3"
	order := FTLOrder{
		VehicleType:     &ConfidenceField[string]{Value: strPtr("LCV"), Confidence: 0.95, Reasoning: &reasoning},
		NumberOfVehicle: NewField(2, 1.0),
		TotalWeight:     NewField(4.5, 0.9),
		PickupDateTime:  NewField("2026-01-05 14:30", 1.0),
		ShippersNote:    EmptyField[string](),
	}

	flat := order.Flatten()

	assert.Equal(t, "LCV", flat["vehicle_type"])
	assert.Equal(t, 2, flat["number_of_vehicle"])
	assert.Equal(t, 4.5, flat["total_weight"])
	assert.Equal(t, "05/01/2026 14:30", flat["pickup_date_and_time"])

	// Null values survive as nil; absent fields are omitted entirely.
	note, ok := flat["shippers_note"]
	assert.True(t, ok)
	assert.Nil(t, note)
	_, ok = flat["body_type"]
	assert.False(t, ok)

	// No wrapper keys leak into the flat record.
	b, err := json.Marshal(flat)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "confidence")
	assert.NotContains(t, string(b), "reasoning")
}

func TestFormatOutputDateIdempotent(t *testing.T) {
	out := FormatOutputDate("2026-01-05 14:30")
	assert.Equal(t, "05/01/2026 14:30", out)

	// Feeding the output back through must not double-transform.
	assert.Equal(t, "05/01/2026 14:30", FormatOutputDate(out))
}

func strPtr(s string) *string { return &s }
