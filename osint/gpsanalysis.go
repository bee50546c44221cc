package osint

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"photoOsint/extract"
)

// geocodeTimeout bounds each reverse lookup inside an analysis.
const geocodeTimeout = 10 * time.Second

// gpsAnalysis enriches a resolved coordinate with reverse-geocoded address
// parts, an offline gazetteer match, map-provider URLs and a rough location
// classification. A geocoding failure records OSINT_GPS_Error and stops the
// analysis; the gazetteer sub-step is best-effort and never reports.
func (e *Enhancer) gpsAnalysis(rec *extract.Record) *extract.Record {
	out := extract.NewRecord()
	coord, ok := ResolveCoordinates(rec)
	if !ok {
		return out
	}
	lat, lon := coord.Lat, coord.Lon
	out.Set("OSINT_Coordinates", fmt.Sprintf("%.6f, %.6f", lat, lon))

	if e.geocoder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), geocodeTimeout)
		defer cancel()
		addr, err := e.geocoder.Reverse(ctx, lat, lon)
		if err != nil {
			out.Set("OSINT_GPS_Error", err.Error())
			return out
		}
		if addr != nil {
			out.Set("OSINT_Country", orUnknown(addr.Country))
			out.Set("OSINT_Country_Code", orUnknown(addr.CountryCode))
			out.Set("OSINT_State", orUnknown(addr.State))
			city := addr.City
			if city == "" {
				city = addr.Town
			}
			out.Set("OSINT_City", orUnknown(city))
			out.Set("OSINT_Postcode", orUnknown(addr.Postcode))
			out.Set("OSINT_Road", orUnknown(addr.Road))
			out.Set("OSINT_Full_Address", addr.DisplayName)
		}
	}

	if e.gazetteer != nil {
		if place, err := e.gazetteer.Lookup(lat, lon); err == nil && place != nil {
			out.Set("OSINT_RG_Country", orUnknown(place.CountryCode))
			out.Set("OSINT_RG_City", orUnknown(place.Name))
			out.Set("OSINT_RG_Admin1", orUnknown(place.Admin1))
			out.Set("OSINT_RG_Admin2", orUnknown(place.Admin2))
		}
	}

	latStr := strconv.FormatFloat(lat, 'f', -1, 64)
	lonStr := strconv.FormatFloat(lon, 'f', -1, 64)
	out.Set("OSINT_Google_Maps", fmt.Sprintf("https://maps.google.com/?q=%s,%s&z=17", latStr, lonStr))
	out.Set("OSINT_OpenStreetMap", fmt.Sprintf("https://www.openstreetmap.org/?mlat=%s&mlon=%s&zoom=17", latStr, lonStr))
	out.Set("OSINT_Bing_Maps", fmt.Sprintf("https://bing.com/maps/default.aspx?cp=%s~%s&lvl=17", latStr, lonStr))
	out.Set("OSINT_Yandex_Maps", fmt.Sprintf("https://yandex.ru/maps/?pt=%s,%s&z=17", lonStr, latStr))
	out.Set("OSINT_What3Words", "https://what3words.com///"+coordToThreeWords(lat, lon))

	for _, key := range rec.Keys() {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "gps") && strings.Contains(lower, "altitude") {
			out.Set("OSINT_Altitude_Analysis", "Altitude data available")
			break
		}
	}

	out.Set("OSINT_Location_Type", e.locationType(lat, lon))
	return out
}

// coordToThreeWords is a deterministic stand-in for a what3words lookup.
// The token is hash-derived, not an address; it exists so downstream
// consumers see a stable, obviously-synthetic value.
func coordToThreeWords(lat, lon float64) string {
	sum := md5.Sum([]byte(strconv.FormatFloat(lat, 'f', -1, 64) + strconv.FormatFloat(lon, 'f', -1, 64)))
	return "demo.words." + hex.EncodeToString(sum[:])[:8]
}

// locationType classifies the surroundings by which address components a
// second reverse geocode reports.
func (e *Enhancer) locationType(lat, lon float64) string {
	if e.geocoder == nil {
		return "Unknown"
	}
	ctx, cancel := context.WithTimeout(context.Background(), geocodeTimeout)
	defer cancel()
	addr, err := e.geocoder.Reverse(ctx, lat, lon)
	if err != nil || addr == nil {
		return "Unknown"
	}
	switch {
	case addr.Aeroway != "":
		return "Airport/Transport"
	case addr.Tourism != "":
		return "Tourist location"
	case addr.Historic != "":
		return "Historic site"
	case addr.Leisure != "":
		return "Leisure area"
	case addr.Waterway != "":
		return "Water area"
	}
	return "Urban/Residential"
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
