package entity

import (
	"encoding/json"

	"github.com/freightctl/ftl-extractor/constants"
)

// FTLOrder is one extracted Full Truck Load shipment request: a named
// mapping of field name to ConfidenceField. Pointer fields distinguish
// "absent from the payload entirely" (nil) from "present with a null value".
type FTLOrder struct {
	VehicleType        *ConfidenceField[string]  `json:"vehicle_type,omitempty"`
	BodyType           *ConfidenceField[string]  `json:"body_type,omitempty"`
	PODType            *ConfidenceField[string]  `json:"pod_type,omitempty"`
	NumberOfVehicle    *ConfidenceField[int]     `json:"number_of_vehicle,omitempty"`
	TotalWeight        *ConfidenceField[float64] `json:"total_weight,omitempty"`
	PickupAddress      *ConfidenceField[string]  `json:"pickup_address,omitempty"`
	DestinationAddress *ConfidenceField[string]  `json:"destination_address,omitempty"`
	ProductCategory    *ConfidenceField[string]  `json:"product_category,omitempty"`
	ProductDescription *ConfidenceField[string]  `json:"product_description,omitempty"`
	PickupDateTime     *ConfidenceField[string]  `json:"pickup_date_and_time,omitempty"`
	DeliveryDateTime   *ConfidenceField[string]  `json:"expected_delivery_date_and_time,omitempty"`
	VehicleSize        *ConfidenceField[string]  `json:"vehicle_size,omitempty"`
	ShippersNote       *ConfidenceField[string]  `json:"shippers_note,omitempty"`
}

// OrderResponse is the structured payload the extraction stage produces.
// An exhausted or aborted extraction yields Orders == empty slice, never nil
// members; downstream stages treat zero orders as a reportable condition.
type OrderResponse struct {
	Orders []FTLOrder `json:"orders"`
}

// UnmarshalJSON decodes an order and then applies the ingestion cleaners:
// fuzzy enum normalization and date canonicalization. Both are best-effort;
// values that don't match pass through unchanged so decoding never fails on
// content the model got creative with.
func (o *FTLOrder) UnmarshalJSON(b []byte) error {
	type alias FTLOrder
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*o = FTLOrder(a)
	o.normalize()
	return nil
}

func (o *FTLOrder) normalize() {
	if f := o.VehicleType; f != nil && f.Value != nil {
		*f.Value = constants.NormalizeVehicleType(*f.Value)
	}
	if f := o.BodyType; f != nil && f.Value != nil {
		*f.Value = constants.NormalizeBodyType(*f.Value)
	}
	for _, f := range []*ConfidenceField[string]{o.PickupDateTime, o.DeliveryDateTime} {
		if f != nil && f.Value != nil {
			*f.Value = CanonicalizeDateTime(*f.Value)
		}
	}
}

// Fields returns the order's fields in declaration order. Absent fields are
// included with Present == false so required-set checks can report them.
func (o *FTLOrder) Fields() []FieldView {
	return []FieldView{
		view(constants.FieldVehicleType, o.VehicleType),
		view(constants.FieldBodyType, o.BodyType),
		view(constants.FieldPODType, o.PODType),
		view(constants.FieldNumberOfVehicle, o.NumberOfVehicle),
		view(constants.FieldTotalWeight, o.TotalWeight),
		view(constants.FieldPickupAddress, o.PickupAddress),
		view(constants.FieldDestinationAddress, o.DestinationAddress),
		view(constants.FieldProductCategory, o.ProductCategory),
		view(constants.FieldProductDescription, o.ProductDescription),
		view(constants.FieldPickupDateTime, o.PickupDateTime),
		view(constants.FieldDeliveryDateTime, o.DeliveryDateTime),
		view(constants.FieldVehicleSize, o.VehicleSize),
		view(constants.FieldShippersNote, o.ShippersNote),
	}
}

// Field looks up a single field view by its JSON name.
func (o *FTLOrder) Field(name string) (FieldView, bool) {
	for _, fv := range o.Fields() {
		if fv.Name == name {
			return fv, true
		}
	}
	return FieldView{}, false
}

// Flatten drops every ConfidenceField wrapper, keeping only bare values.
// Date fields holding a canonical "YYYY-MM-DD HH:MM" string are rewritten to
// the output form "DD/MM/YYYY HH:MM"; anything else is kept verbatim, so a
// second flatten pass never double-transforms. Absent fields are omitted.
func (o *FTLOrder) Flatten() map[string]any {
	flat := make(map[string]any)
	for _, fv := range o.Fields() {
		if !fv.Present {
			continue
		}
		value := fv.Value
		if s, ok := value.(string); ok && isDateField(fv.Name) {
			value = FormatOutputDate(s)
		}
		flat[fv.Name] = value
	}
	return flat
}
