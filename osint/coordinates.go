package osint

import (
	"math"
	"strconv"
	"strings"

	"photoOsint/extract"
)

// Coordinate is a resolved decimal latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lon float64
}

// ResolveCoordinates scans a record for a usable coordinate. The first tier
// looks for the decimal GPS fields the extractor emits; if either half is
// missing, the second tier tries any combined "coordinates" field holding a
// "lat, lon" string. Returns false when nothing resolves to a valid pair.
func ResolveCoordinates(rec *extract.Record) (Coordinate, bool) {
	var lat, lon float64
	var haveLat, haveLon bool

	for _, key := range rec.Keys() {
		lower := strings.ToLower(key)
		if !strings.Contains(lower, "gps") || !strings.Contains(lower, "decimal") {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec.GetString(key)), 64)
		if err != nil {
			continue
		}
		switch {
		case strings.Contains(lower, "latitude") && !haveLat:
			lat, haveLat = v, true
		case strings.Contains(lower, "longitude") && !haveLon:
			lon, haveLon = v, true
		}
	}

	if !haveLat || !haveLon {
		for _, key := range rec.Keys() {
			if !strings.Contains(strings.ToLower(key), "coordinates") {
				continue
			}
			parts := strings.Split(rec.GetString(key), ",")
			if len(parts) != 2 {
				continue
			}
			la, errLa := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			lo, errLo := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if errLa != nil || errLo != nil {
				continue
			}
			lat, lon = la, lo
			haveLat, haveLon = true, true
			break
		}
	}

	if !haveLat || !haveLon {
		return Coordinate{}, false
	}
	if !validCoordinate(lat, lon) {
		return Coordinate{}, false
	}
	return Coordinate{Lat: lat, Lon: lon}, true
}

func validCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
