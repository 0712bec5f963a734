package constants

import (
	"strings"
)

// VehicleType is the canonical vehicle classification for an FTL order.
type VehicleType string

const (
	VehicleLCV          VehicleType = "LCV"
	VehicleHCV          VehicleType = "HCV"
	VehicleTrailer      VehicleType = "Trailer"
	VehicleCityLogistic VehicleType = "City Logistic"
	VehicleNotSpecified VehicleType = "Not specified"
)

// BodyType is the canonical truck body classification.
type BodyType string

const (
	BodyOpen         BodyType = "Open"
	BodyClosed       BodyType = "Closed"
	BodyRefrigerated BodyType = "Refrigerated"
	BodyNotSpecified BodyType = "Not specified"
)

// PODType is the proof-of-delivery document form.
type PODType string

const (
	PODHardcopy PODType = "Hardcopy"
	PODSoftcopy PODType = "Softcopy"
	PODBoth     PODType = "Both"
)

// NormalizeVehicleType maps fuzzy model output to a canonical vehicle label
// by case-insensitive substring match ("LCV truck" -> "LCV"). Unmatched
// values pass through unchanged; downstream review handles them, so this
// never fails.
func NormalizeVehicleType(input string) string {
	lower := strings.ToLower(input)
	switch {
	case strings.Contains(lower, "lcv"):
		return string(VehicleLCV)
	case strings.Contains(lower, "hcv"):
		return string(VehicleHCV)
	case strings.Contains(lower, "trailer"):
		return string(VehicleTrailer)
	case strings.Contains(lower, "city"):
		return string(VehicleCityLogistic)
	}
	return input
}

// NormalizeBodyType maps fuzzy model output to a canonical body label by
// case-insensitive substring match ("Open truck" -> "Open", "reefer" ->
// "Refrigerated"). Unmatched values pass through unchanged.
func NormalizeBodyType(input string) string {
	lower := strings.ToLower(input)
	switch {
	case strings.Contains(lower, "open"):
		return string(BodyOpen)
	case strings.Contains(lower, "close"):
		return string(BodyClosed)
	case strings.Contains(lower, "ref"):
		return string(BodyRefrigerated)
	}
	return input
}
