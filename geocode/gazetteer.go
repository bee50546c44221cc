package geocode

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
)

// Place is an offline gazetteer entry.
type Place struct {
	Name        string
	Admin1      string
	Admin2      string
	CountryCode string
	Lat         float64
	Lon         float64
}

// Gazetteer answers nearest-place queries without touching the network. The
// dataset loads once and lookups are a linear scan, which is fine for the
// city-scale datasets it is meant for.
type Gazetteer struct {
	places []Place
}

// LoadGazetteer reads a CSV dataset with columns lat,lon,name,admin1,admin2,cc.
// A header row is detected by a non-numeric first column and skipped.
func LoadGazetteer(path string) (*Gazetteer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gazetteer: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read gazetteer: %w", err)
	}

	g := &Gazetteer{}
	for i, row := range rows {
		lat, latErr := strconv.ParseFloat(row[0], 64)
		lon, lonErr := strconv.ParseFloat(row[1], 64)
		if latErr != nil || lonErr != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("gazetteer row %d: bad coordinates", i+1)
		}
		g.places = append(g.places, Place{
			Name:        row[2],
			Admin1:      row[3],
			Admin2:      row[4],
			CountryCode: row[5],
			Lat:         lat,
			Lon:         lon,
		})
	}
	if len(g.places) == 0 {
		return nil, fmt.Errorf("gazetteer %s: no entries", path)
	}
	return g, nil
}

// Lookup returns the nearest known place. The distance metric is an
// equirectangular approximation, which ranks neighbors correctly at the
// scales a city gazetteer covers.
func (g *Gazetteer) Lookup(lat, lon float64) (*Place, error) {
	if len(g.places) == 0 {
		return nil, fmt.Errorf("gazetteer is empty")
	}
	best := 0
	bestDist := math.Inf(1)
	cosLat := math.Cos(lat * math.Pi / 180)
	for i, p := range g.places {
		dLat := p.Lat - lat
		dLon := (p.Lon - lon) * cosLat
		d := dLat*dLat + dLon*dLon
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	p := g.places[best]
	return &p, nil
}

// Size reports how many places are loaded.
func (g *Gazetteer) Size() int {
	return len(g.places)
}
