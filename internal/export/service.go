package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/freightctl/ftl-extractor/constants"
	"github.com/freightctl/ftl-extractor/internal/route"
)

// Service produces XLSX bytes from the accepted-orders collection.
type Service struct {
	accepted *route.Store
	logger   *slog.Logger
}

func NewService(accepted *route.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{accepted: accepted, logger: logger}
}

// columns maps sheet headers to the flat order keys, in output order.
var columns = []struct {
	header string
	key    string
	width  float64
}{
	{"Vehicle Type", constants.FieldVehicleType, 14},
	{"Body Type", constants.FieldBodyType, 14},
	{"POD Type", constants.FieldPODType, 12},
	{"Vehicles", constants.FieldNumberOfVehicle, 10},
	{"Weight (t)", constants.FieldTotalWeight, 12},
	{"Pickup Address", constants.FieldPickupAddress, 36},
	{"Destination Address", constants.FieldDestinationAddress, 36},
	{"Product Category", constants.FieldProductCategory, 18},
	{"Product Description", constants.FieldProductDescription, 32},
	{"Pickup Date", constants.FieldPickupDateTime, 18},
	{"Expected Delivery", constants.FieldDeliveryDateTime, 18},
	{"Vehicle Size", constants.FieldVehicleSize, 14},
	{"Shipper's Note", constants.FieldShippersNote, 40},
}

// AcceptedXLSX renders the whole accepted collection as one workbook.
func (s *Service) AcceptedXLSX() ([]byte, error) {
	start := time.Now()
	records := s.accepted.ReadAll()

	f := excelize.NewFile()
	const sheet = "Accepted Orders"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, col.header)
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, name, name, col.width)
	}

	row := 2
	for _, raw := range records {
		var flat map[string]any
		if err := json.Unmarshal(raw, &flat); err != nil {
			s.logger.Warn("export.skip_record", "error", err)
			continue
		}
		for i, col := range columns {
			v, ok := flat[col.key]
			if !ok || v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
