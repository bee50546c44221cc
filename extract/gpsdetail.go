package extract

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// gpsAuxNames maps raw GPS tags onto their friendly output names.
var gpsAuxNames = []struct {
	tag      string
	friendly string
}{
	{"GPSAltitude", "Altitude"},
	{"GPSTimeStamp", "TimeStamp"},
	{"GPSDateStamp", "Date"},
	{"GPSProcessingMethod", "ProcessingMethod"},
	{"GPSSpeed", "Speed"},
	{"GPSTrack", "Track"},
	{"GPSImgDirection", "ImageDirection"},
}

// detailedGPS is pass 5: every GPS tag verbatim, plus resolved decimal
// coordinates, map URLs and DMS strings when a latitude/longitude pair is
// present.
func (e *Extractor) detailedGPS(path string) *Record {
	rec := NewRecord()
	f, err := os.Open(path)
	if err != nil {
		e.log.Warnf("detailed gps: %v", err)
		return rec
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		// No EXIF block means no GPS presence flag at all.
		return rec
	}

	c := newTagCollector(func(name string) bool {
		return strings.Contains(name, "GPS")
	})
	_ = x.Walk(c)
	if len(c.tags) == 0 {
		return rec
	}

	for _, name := range c.sortedNames() {
		rec.Set("GPS_Raw_"+name, cleanTagString(c.tags[name]))
	}
	rec.Set("GPS_Presence", "YES")

	e.resolveGPSCoordinates(rec, c.tags)

	for _, aux := range gpsAuxNames {
		if tag, ok := c.tags[aux.tag]; ok {
			rec.Set("GPS_"+aux.friendly, cleanTagString(tag))
		}
	}
	return rec
}

// resolveGPSCoordinates parses the DMS rational triples and hemisphere
// references into the decimal, combined, URL and DMS fields. A failure is
// recorded as GPS_Error without aborting the pass.
func (e *Extractor) resolveGPSCoordinates(rec *Record, tags map[string]*tiff.Tag) {
	defer func() {
		if r := recover(); r != nil {
			rec.Set("GPS_Error", fmt.Sprintf("Coordinate processing: %v", r))
		}
	}()

	latTag, okLat := tags["GPSLatitude"]
	lonTag, okLon := tags["GPSLongitude"]
	if !okLat || !okLon {
		return
	}

	lat := DMSToDecimal(ratFloats(latTag))
	lon := DMSToDecimal(ratFloats(lonTag))

	if refTag, ok := tags["GPSLatitudeRef"]; ok {
		ref := strings.ToUpper(cleanTagString(refTag))
		rec.Set("GPS_Lat_Ref", ref)
		if ref == "S" {
			lat = -lat
		}
	}
	if refTag, ok := tags["GPSLongitudeRef"]; ok {
		ref := strings.ToUpper(cleanTagString(refTag))
		rec.Set("GPS_Lon_Ref", ref)
		if ref == "W" {
			lon = -lon
		}
	}

	latStr := strconv.FormatFloat(lat, 'f', -1, 64)
	lonStr := strconv.FormatFloat(lon, 'f', -1, 64)

	rec.Set("GPS_Latitude_Decimal", fmt.Sprintf("%.8f", lat))
	rec.Set("GPS_Longitude_Decimal", fmt.Sprintf("%.8f", lon))
	rec.Set("GPS_Coordinates", fmt.Sprintf("%.6f, %.6f", lat, lon))
	rec.Set("GPS_Google_Maps", fmt.Sprintf("https://maps.google.com/?q=%s,%s", latStr, lonStr))
	rec.Set("GPS_OpenStreetMap", fmt.Sprintf("https://www.openstreetmap.org/?mlat=%s&mlon=%s", latStr, lonStr))
	rec.Set("GPS_Latitude_DMS", DecimalToDMS(lat, true))
	rec.Set("GPS_Longitude_DMS", DecimalToDMS(lon, false))
}

// ratFloats converts a rational tag into its float components; a component
// that fails to decode contributes 0.
func ratFloats(tag *tiff.Tag) []float64 {
	n := int(tag.Count)
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil || den == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, float64(num)/float64(den))
	}
	return out
}
