package gridload

import (
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/preluded103/gridintel-cli/internal/model"
)

// Attribute aliases seen across national grid shapefile exports. The first
// alias present in the DBF wins.
var (
	nameAliases     = []string{"name", "station", "subst_name"}
	operatorAliases = []string{"operator", "tso", "owner"}
	countryAliases  = []string{"country", "cntry", "iso_a2"}
	voltageAliases  = []string{"voltage_kv", "voltage", "max_voltag"}
	capacityAliases = []string{"capacity_mw", "capacity", "mva"}
)

// ParseShapefile reads a point shapefile of grid substations and returns
// records ready for store insertion. Records without a usable point geometry
// or name are skipped.
func ParseShapefile(shpPath, defaultCountry string) ([]model.Substation, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "gridload: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	var subs []model.Substation
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		pt, ok := shape.(*shp.Point)
		if !ok || pt == nil {
			skipped++
			continue
		}
		if pt.Y < -90 || pt.Y > 90 || pt.X < -180 || pt.X > 180 {
			skipped++
			continue
		}

		name := attrString(reader, fieldIdx, nameAliases)
		if name == "" {
			skipped++
			continue
		}

		country := attrString(reader, fieldIdx, countryAliases)
		if country == "" {
			country = defaultCountry
		}

		subs = append(subs, model.Substation{
			Name:       name,
			Operator:   attrString(reader, fieldIdx, operatorAliases),
			Country:    country,
			VoltageKV:  normalizeVoltage(attrFloat(reader, fieldIdx, voltageAliases)),
			CapacityMW: attrFloat(reader, fieldIdx, capacityAliases),
			Lat:        pt.Y,
			Lon:        pt.X,
		})
	}

	if skipped > 0 {
		zap.L().Debug("gridload: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	return subs, nil
}

// attrString returns the first non-empty attribute among the aliases.
func attrString(reader *shp.Reader, fieldIdx map[string]int, aliases []string) string {
	for _, alias := range aliases {
		idx, ok := fieldIdx[alias]
		if !ok {
			continue
		}
		val := strings.TrimRight(reader.Attribute(idx), "\x00")
		val = strings.TrimSpace(val)
		if val != "" {
			return val
		}
	}
	return ""
}

// attrFloat parses the first numeric attribute among the aliases. Values like
// "400;110" (multi-voltage stations) take the first component.
func attrFloat(reader *shp.Reader, fieldIdx map[string]int, aliases []string) float64 {
	raw := attrString(reader, fieldIdx, aliases)
	if raw == "" {
		return 0
	}
	if i := strings.IndexAny(raw, ";,"); i >= 0 {
		raw = raw[:i]
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}

// normalizeVoltage converts volts to kilovolts when the source encodes raw
// volts (OSM convention).
func normalizeVoltage(v float64) float64 {
	if v >= 1000 {
		return v / 1000
	}
	return v
}
