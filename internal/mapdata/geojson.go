package mapdata

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSONZones loads every *.geojson file in dir and returns the
// outer rings of all Polygon and MultiPolygon features as forbidden-zone
// records. Files that fail to read or parse are skipped with a warning
// so one bad overlay does not sink the whole map.
func LoadGeoJSONZones(dir string) ([]ZoneRecord, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, fmt.Errorf("mapdata: glob %s: %w", dir, err)
	}

	var zones []ZoneRecord
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Printf("mapdata: skipping %s: %v", file, err)
			continue
		}

		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			log.Printf("mapdata: skipping %s: %v", file, err)
			continue
		}

		count := 0
		for _, feature := range fc.Features {
			for _, ring := range outerRings(feature.Geometry) {
				zones = append(zones, ZoneRecord{Polygon: ring})
				count++
			}
		}
		log.Printf("mapdata: loaded %d zones from %s", count, filepath.Base(file))
	}

	return zones, nil
}

// outerRings extracts the outer boundary of polygonal geometries; holes
// and non-polygonal geometries are ignored.
func outerRings(g orb.Geometry) [][]PointRecord {
	switch geom := g.(type) {
	case orb.Polygon:
		if len(geom) == 0 {
			return nil
		}
		return [][]PointRecord{ringToRecords(geom[0])}
	case orb.MultiPolygon:
		var rings [][]PointRecord
		for _, poly := range geom {
			if len(poly) > 0 {
				rings = append(rings, ringToRecords(poly[0]))
			}
		}
		return rings
	default:
		return nil
	}
}

// ringToRecords converts an orb ring, dropping the GeoJSON closing
// vertex that duplicates the first one.
func ringToRecords(ring orb.Ring) []PointRecord {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	records := make([]PointRecord, n)
	for i := 0; i < n; i++ {
		records[i] = PointRecord{X: ring[i][0], Y: ring[i][1]}
	}
	return records
}
