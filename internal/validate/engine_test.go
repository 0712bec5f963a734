package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightctl/ftl-extractor/internal/entity"
)

// cleanOrder returns an order that passes all three layers.
func cleanOrder() entity.FTLOrder {
	return entity.FTLOrder{
		VehicleType:        entity.NewField("LCV", 0.95),
		BodyType:           entity.NewField("Open", 0.9),
		NumberOfVehicle:    entity.NewField(2, 1.0),
		TotalWeight:        entity.NewField(4.5, 0.92),
		PickupAddress:      entity.NewField("Mumbai", 1.0),
		DestinationAddress: entity.NewField("Pune", 1.0),
		ProductCategory:    entity.NewField("FMCG", 0.9),
		ProductDescription: entity.NewField("Packaged food", 0.85),
		PickupDateTime:     entity.NewField("2026-09-01 09:00", 1.0),
	}
}

func TestValidateEmptyOrders(t *testing.T) {
	e := NewEngine(nil)

	for _, orders := range [][]entity.FTLOrder{nil, {}} {
		issues := e.Validate(orders)
		require.Len(t, issues, 1)
		assert.Equal(t, 0, issues[0].OrderIndex)
		assert.Equal(t, "general", issues[0].Field)
		assert.Equal(t, "No orders found in file", issues[0].Issue)
		assert.Nil(t, issues[0].CurrentValue)
	}
}

func TestValidateCleanOrder(t *testing.T) {
	issues := NewEngine(nil).Validate([]entity.FTLOrder{cleanOrder()})
	assert.Empty(t, issues)
}

func TestCompletenessLayer(t *testing.T) {
	// vehicle_type absent entirely, total_weight present with a null value.
	order := cleanOrder()
	order.VehicleType = nil
	order.TotalWeight = entity.EmptyField[float64]()

	issues := NewEngine(nil).Validate([]entity.FTLOrder{order})
	require.Len(t, issues, 2)

	assert.Equal(t, "vehicle_type", issues[0].Field)
	assert.Equal(t, "Field is missing", issues[0].Issue)
	assert.Nil(t, issues[0].CurrentValue)

	assert.Equal(t, "total_weight", issues[1].Field)
	assert.Equal(t, "Missing required value", issues[1].Issue)
	assert.Nil(t, issues[1].CurrentValue)
}

func TestConfidenceLayer(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		wantIssue  bool
		wantText   string
	}{
		{"below threshold", 0.79, true, "Low Confidence (0.79)"},
		{"at threshold passes", 0.80, false, ""},
		{"well above", 0.95, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := cleanOrder()
			order.VehicleType = entity.NewField("LCV", tt.confidence)

			issues := NewEngine(nil).Validate([]entity.FTLOrder{order})
			if !tt.wantIssue {
				assert.Empty(t, issues)
				return
			}
			require.Len(t, issues, 1)
			assert.Equal(t, "vehicle_type", issues[0].Field)
			assert.Equal(t, tt.wantText, issues[0].Issue)
			assert.Equal(t, "LCV", issues[0].CurrentValue)
		})
	}
}

func TestConfidenceLayerCoversOptionalFields(t *testing.T) {
	order := cleanOrder()
	order.ShippersNote = entity.NewField("handle with care", 0.4)

	issues := NewEngine(nil).Validate([]entity.FTLOrder{order})
	require.Len(t, issues, 1)
	assert.Equal(t, "shippers_note", issues[0].Field)
	assert.Equal(t, "Low Confidence (0.40)", issues[0].Issue)
}

func TestConfidenceLayerSkipsNullValues(t *testing.T) {
	// A null optional value with confidence 0 is a completeness concern, not
	// a confidence one; optional fields produce no issue at all.
	order := cleanOrder()
	order.ShippersNote = entity.EmptyField[string]()

	issues := NewEngine(nil).Validate([]entity.FTLOrder{order})
	assert.Empty(t, issues)
}

func TestPhysicsLayer(t *testing.T) {
	t.Run("negative weight", func(t *testing.T) {
		order := cleanOrder()
		order.TotalWeight = entity.NewField(-100.0, 0.9)

		issues := NewEngine(nil).Validate([]entity.FTLOrder{order})
		require.Len(t, issues, 1)
		assert.Equal(t, "total_weight", issues[0].Field)
		assert.Equal(t, "Weight must be positive", issues[0].Issue)
		assert.Equal(t, -100.0, issues[0].CurrentValue)
	})

	t.Run("tiny positive weight passes", func(t *testing.T) {
		order := cleanOrder()
		order.TotalWeight = entity.NewField(0.0001, 0.9)

		assert.Empty(t, NewEngine(nil).Validate([]entity.FTLOrder{order}))
	})

	t.Run("zero vehicle count", func(t *testing.T) {
		order := cleanOrder()
		order.NumberOfVehicle = entity.NewField(0, 1.0)

		issues := NewEngine(nil).Validate([]entity.FTLOrder{order})
		require.Len(t, issues, 1)
		assert.Equal(t, "number_of_vehicle", issues[0].Field)
		assert.Equal(t, "Vehicle count must be at least 1", issues[0].Issue)
		assert.Equal(t, 0, issues[0].CurrentValue)
	})
}

func TestLayerOrderAndAggregation(t *testing.T) {
	// One order failing all three layers: issues arrive completeness first,
	// then confidence, then physics.
	order := cleanOrder()
	order.PickupAddress = nil                         // completeness
	order.ProductCategory = entity.NewField("?", 0.3) // confidence
	order.TotalWeight = entity.NewField(-1.0, 0.9)    // physics

	issues := NewEngine(nil).Validate([]entity.FTLOrder{order})
	require.Len(t, issues, 3)
	assert.Equal(t, "Field is missing", issues[0].Issue)
	assert.Equal(t, "Low Confidence (0.30)", issues[1].Issue)
	assert.Equal(t, "Weight must be positive", issues[2].Issue)
}

func TestAllOrdersChecked(t *testing.T) {
	bad := cleanOrder()
	bad.VehicleType = nil

	issues := NewEngine(nil).Validate([]entity.FTLOrder{bad, cleanOrder(), bad})
	require.Len(t, issues, 2)
	assert.Equal(t, 0, issues[0].OrderIndex)
	assert.Equal(t, 2, issues[1].OrderIndex)
}
