package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/freightctl/ftl-extractor/internal/route"
)

func TestAcceptedXLSX(t *testing.T) {
	store := route.NewStore(filepath.Join(t.TempDir(), "success_orders.json"), nil)
	require.NoError(t, store.Append([]any{
		map[string]any{
			"vehicle_type":         "LCV",
			"total_weight":         4.5,
			"pickup_address":       "Mumbai",
			"pickup_date_and_time": "01/09/2026 09:00",
		},
	}))

	data, err := NewService(store, nil).AcceptedXLSX()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Accepted Orders"
	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Vehicle Type", header)

	vehicle, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "LCV", vehicle)

	pickup, err := f.GetCellValue(sheet, "F2")
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", pickup)
}

func TestAcceptedXLSXEmptyCollection(t *testing.T) {
	store := route.NewStore(filepath.Join(t.TempDir(), "success_orders.json"), nil)

	data, err := NewService(store, nil).AcceptedXLSX()
	require.NoError(t, err)
	assert.NotEmpty(t, data, "empty collection still yields a header-only workbook")
}
