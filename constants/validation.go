package constants

// ConfidenceThreshold is the minimum per-field model confidence an extracted
// value must carry to pass validation without review. The boundary is
// inclusive: exactly 0.8 passes.
const ConfidenceThreshold = 0.8

// RequiredFields is the set of order fields that must be present with a
// non-null value for an order to be committable. Order matters: completeness
// issues are reported in this sequence.
var RequiredFields = []string{
	FieldVehicleType,
	FieldPickupAddress,
	FieldPickupDateTime,
	FieldTotalWeight,
	FieldDestinationAddress,
}

// Canonical JSON field names of an FTL order, in schema declaration order.
const (
	FieldVehicleType        = "vehicle_type"
	FieldBodyType           = "body_type"
	FieldPODType            = "pod_type"
	FieldNumberOfVehicle    = "number_of_vehicle"
	FieldTotalWeight        = "total_weight"
	FieldPickupAddress      = "pickup_address"
	FieldDestinationAddress = "destination_address"
	FieldProductCategory    = "product_category"
	FieldProductDescription = "product_description"
	FieldPickupDateTime     = "pickup_date_and_time"
	FieldDeliveryDateTime   = "expected_delivery_date_and_time"
	FieldVehicleSize        = "vehicle_size"
	FieldShippersNote       = "shippers_note"
)
