// Package osint layers intelligence-oriented enrichment on top of an
// extracted metadata record: reverse geocoding, device fingerprinting,
// timeline hints, file hashes, network indicators and a location map.
package osint

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"photoOsint/extract"
	"photoOsint/geocode"
)

// Geocoder is the online reverse-geocoding collaborator.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*geocode.Address, error)
}

// Gazetteer is the offline nearest-place collaborator.
type Gazetteer interface {
	Lookup(lat, lon float64) (*geocode.Place, error)
}

// MapWriter renders a single-marker map document and returns its path.
type MapWriter interface {
	Write(lat, lon float64, popup, tooltip string) (string, error)
}

// Enhancer derives OSINT fields from an extracted record. All collaborators
// are optional: a nil geocoder, gazetteer or map writer simply disables the
// analyses that need it.
type Enhancer struct {
	geocoder  Geocoder
	gazetteer Gazetteer
	maps      MapWriter
	log       *logrus.Logger
}

func NewEnhancer(geocoder Geocoder, gazetteer Gazetteer, maps MapWriter, log *logrus.Logger) *Enhancer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Enhancer{geocoder: geocoder, gazetteer: gazetteer, maps: maps, log: log}
}

// Enhance returns an enriched copy of the record. The input is never
// mutated; the output always contains every input field. Each analysis
// fails independently into its own error field, and an unexpected failure
// of the whole pass is captured as OSINT_Error on the copy.
func (e *Enhancer) Enhance(base *extract.Record, imagePath string) (out *extract.Record) {
	out = base.Copy()
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("osint enhancement failed for %s: %v", imagePath, r)
			out.Set("OSINT_Error", fmt.Sprint(r))
		}
	}()

	out.Merge(e.runAnalysis("GPS", func() *extract.Record { return e.gpsAnalysis(base) }))
	out.Merge(e.runAnalysis("Camera", func() *extract.Record { return e.cameraAnalysis(base) }))
	out.Merge(e.runAnalysis("Time", func() *extract.Record { return e.timeAnalysis(base) }))
	out.Merge(e.runAnalysis("Forensic", func() *extract.Record { return e.forensicAnalysis(imagePath) }))
	out.Merge(e.runAnalysis("Network", func() *extract.Record { return e.networkAnalysis(base) }))

	if path := e.locationMap(base); path != "" {
		out.Set("OSINT_Map_File", path)
	}
	return out
}

// runAnalysis isolates one analysis: a failure inside it collapses into a
// single OSINT_<name>_Error field and the remaining analyses still run.
func (e *Enhancer) runAnalysis(name string, fn func() *extract.Record) (out *extract.Record) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("%s analysis failed: %v", name, r)
			out = extract.NewRecord()
			out.Set("OSINT_"+name+"_Error", fmt.Sprint(r))
		}
	}()
	return fn()
}

// locationMap writes the marker document when a coordinate resolves. Any
// failure, panics included, drops the field silently.
func (e *Enhancer) locationMap(rec *extract.Record) (mapPath string) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warnf("location map: %v", r)
			mapPath = ""
		}
	}()
	if e.maps == nil {
		return ""
	}
	coord, ok := ResolveCoordinates(rec)
	if !ok {
		return ""
	}
	path, err := e.maps.Write(coord.Lat, coord.Lon, "Photo Location", "GPS from EXIF")
	if err != nil {
		e.log.Warnf("location map: %v", err)
		return ""
	}
	return path
}

// ExtractOSINT runs extraction followed by enhancement, falling back to the
// plain extracted record if enrichment blows up entirely.
func ExtractOSINT(x *extract.Extractor, e *Enhancer, imagePath string) *extract.Record {
	rec := x.Extract(imagePath)
	if e == nil {
		return rec
	}
	enhanced := e.Enhance(rec, imagePath)
	if enhanced == nil {
		return rec
	}
	return enhanced
}
