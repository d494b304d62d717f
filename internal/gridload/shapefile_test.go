package gridload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestShapefile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "substations.shp")
	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)

	fields := []shp.Field{
		shp.StringField("name", 40),
		shp.StringField("operator", 40),
		shp.StringField("country", 10),
		shp.StringField("voltage", 20),
		shp.FloatField("capacity_mw", 12, 2),
	}
	require.NoError(t, w.SetFields(fields))

	rows := []struct {
		pt   shp.Point
		vals []any
	}{
		{shp.Point{X: 24.93, Y: 60.32}, []any{"Tammisto", "Fingrid", "Finland", "400000", 1600.0}},
		{shp.Point{X: 18.06, Y: 59.33}, []any{"Värtan", "Svenska Kraftnät", "Sweden", "220;110", 800.0}},
		{shp.Point{X: 25.10, Y: 60.40}, []any{"", "Fingrid", "Finland", "110", 200.0}},
		{shp.Point{X: 10.0, Y: 55.0}, []any{"Fraugde", "", "", "400", 900.0}},
	}
	for i, row := range rows {
		w.Write(&row.pt)
		for f, val := range row.vals {
			require.NoError(t, w.WriteAttribute(i, f, val))
		}
	}
	w.Close()

	// go-shp's writer names the attribute table "<base>dbf" while the
	// reader looks for "<base>.dbf".
	base := strings.TrimSuffix(path, ".shp")
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))

	return path
}

func TestParseShapefile(t *testing.T) {
	path := writeTestShapefile(t)

	subs, err := ParseShapefile(path, "Denmark")
	require.NoError(t, err)

	// The record with no name is skipped.
	require.Len(t, subs, 3)

	assert.Equal(t, "Tammisto", subs[0].Name)
	assert.Equal(t, "Fingrid", subs[0].Operator)
	assert.Equal(t, "Finland", subs[0].Country)
	assert.InDelta(t, 400.0, subs[0].VoltageKV, 0.001) // volts normalized to kV
	assert.InDelta(t, 1600.0, subs[0].CapacityMW, 0.001)
	assert.InDelta(t, 60.32, subs[0].Lat, 0.001)
	assert.InDelta(t, 24.93, subs[0].Lon, 0.001)

	// Multi-voltage attribute takes the first component.
	assert.InDelta(t, 220.0, subs[1].VoltageKV, 0.001)

	// Missing country falls back to the default.
	assert.Equal(t, "Denmark", subs[2].Country)
	assert.Equal(t, "Fraugde", subs[2].Name)
}

func TestParseShapefileMissingFile(t *testing.T) {
	_, err := ParseShapefile(filepath.Join(t.TempDir(), "nope.shp"), "")
	require.Error(t, err)
}

func TestNormalizeVoltage(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{400000, 400},
		{110000, 110},
		{400, 400},
		{0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, normalizeVoltage(tt.in), 0.001)
	}
}
