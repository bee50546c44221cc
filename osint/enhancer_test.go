package osint

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"photoOsint/extract"
	"photoOsint/geocode"
)

type fakeGeocoder struct {
	addr *geocode.Address
	err  error
}

func (f *fakeGeocoder) Reverse(ctx context.Context, lat, lon float64) (*geocode.Address, error) {
	return f.addr, f.err
}

type fakeGazetteer struct {
	place *geocode.Place
	err   error
}

func (f *fakeGazetteer) Lookup(lat, lon float64) (*geocode.Place, error) {
	return f.place, f.err
}

type fakeMapWriter struct {
	path string
	err  error
}

func (f *fakeMapWriter) Write(lat, lon float64, popup, tooltip string) (string, error) {
	return f.path, f.err
}

type panickyGeocoder struct{}

func (panickyGeocoder) Reverse(ctx context.Context, lat, lon float64) (*geocode.Address, error) {
	panic("geocoder blew up")
}

type panickyMapWriter struct{}

func (panickyMapWriter) Write(lat, lon float64, popup, tooltip string) (string, error) {
	panic("render failed")
}

func gpsRecord() *extract.Record {
	rec := extract.NewRecord()
	rec.Set("File_Name", "IMG_0001.jpg")
	rec.Set("Image_Make", "Canon")
	rec.Set("Image_Model", "EOS R5")
	rec.Set("EXIF_DateTimeOriginal", "2021:06:15 14:30:00")
	rec.Set("GPS_Latitude_Decimal", "40.44633333")
	rec.Set("GPS_Longitude_Decimal", "-79.98230556")
	return rec
}

func writeTempImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "IMG_0001.jpg")
	if err := os.WriteFile(path, []byte("fake image bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestEnhanceIsSuperset(t *testing.T) {
	base := gpsRecord()
	e := NewEnhancer(
		&fakeGeocoder{addr: &geocode.Address{Country: "United States", City: "Pittsburgh", DisplayName: "Pittsburgh, PA"}},
		&fakeGazetteer{place: &geocode.Place{Name: "Pittsburgh", CountryCode: "US"}},
		&fakeMapWriter{path: "/tmp/osint_map_abc.html"},
		nil,
	)

	out := e.Enhance(base, writeTempImage(t))

	for _, key := range base.Keys() {
		bv, _ := base.Get(key)
		ov, ok := out.Get(key)
		if !ok || ov != bv {
			t.Errorf("input field %q lost or changed", key)
		}
	}
	if out.Len() <= base.Len() {
		t.Error("enhancement added no fields")
	}
}

func TestEnhanceDoesNotMutateInput(t *testing.T) {
	base := gpsRecord()
	before := base.Len()

	e := NewEnhancer(nil, nil, nil, nil)
	_ = e.Enhance(base, writeTempImage(t))

	if base.Len() != before {
		t.Errorf("input record grew from %d to %d fields", before, base.Len())
	}
}

func TestEnhanceGeocodedAddress(t *testing.T) {
	e := NewEnhancer(
		&fakeGeocoder{addr: &geocode.Address{Country: "United States", Town: "Springfield", DisplayName: "Springfield, USA"}},
		nil, nil, nil,
	)
	out := e.Enhance(gpsRecord(), writeTempImage(t))

	if got := out.GetString("OSINT_Country"); got != "United States" {
		t.Errorf("OSINT_Country = %q", got)
	}
	// Town backfills a missing city.
	if got := out.GetString("OSINT_City"); got != "Springfield" {
		t.Errorf("OSINT_City = %q", got)
	}
	// Absent sub-fields default rather than disappear.
	if got := out.GetString("OSINT_Road"); got != "Unknown" {
		t.Errorf("OSINT_Road = %q", got)
	}
	if got := out.GetString("OSINT_Full_Address"); got != "Springfield, USA" {
		t.Errorf("OSINT_Full_Address = %q", got)
	}
}

func TestEnhanceGeocoderFailure(t *testing.T) {
	e := NewEnhancer(&fakeGeocoder{err: errors.New("network down")}, nil, nil, nil)
	out := e.Enhance(gpsRecord(), writeTempImage(t))

	if got := out.GetString("OSINT_GPS_Error"); got != "network down" {
		t.Errorf("OSINT_GPS_Error = %q", got)
	}
	if out.Has("OSINT_Country") {
		t.Error("address fields must not appear after a geocode failure")
	}
	// The other analyses still run.
	if got := out.GetString("OSINT_Camera_Make"); got != "Canon" {
		t.Errorf("OSINT_Camera_Make = %q", got)
	}
	if !out.Has("OSINT_SHA256_Hash") {
		t.Error("forensic analysis should still contribute")
	}
}

func TestEnhanceGazetteerFailureIsSilent(t *testing.T) {
	e := NewEnhancer(
		&fakeGeocoder{addr: &geocode.Address{Country: "France"}},
		&fakeGazetteer{err: errors.New("dataset corrupt")},
		nil, nil,
	)
	out := e.Enhance(gpsRecord(), writeTempImage(t))

	for _, key := range out.Keys() {
		if strings.Contains(key, "RG_") {
			t.Errorf("gazetteer failure leaked field %q", key)
		}
	}
	if out.Has("OSINT_GPS_Error") {
		t.Error("gazetteer failure must not set the GPS error field")
	}
}

func TestEnhanceMapURLs(t *testing.T) {
	e := NewEnhancer(&fakeGeocoder{addr: &geocode.Address{}}, nil, nil, nil)
	out := e.Enhance(gpsRecord(), writeTempImage(t))

	gm := out.GetString("OSINT_Google_Maps")
	if !strings.Contains(gm, "40.44633333") || !strings.Contains(gm, "-79.98230556") || !strings.Contains(gm, "&z=17") {
		t.Errorf("OSINT_Google_Maps = %q", gm)
	}
	ym := out.GetString("OSINT_Yandex_Maps")
	if !strings.HasPrefix(ym, "https://yandex.ru/maps/?pt=-79.98230556,40.44633333") {
		t.Errorf("Yandex URL puts longitude first: %q", ym)
	}
	w3w := out.GetString("OSINT_What3Words")
	if !strings.HasPrefix(w3w, "https://what3words.com///demo.words.") {
		t.Errorf("OSINT_What3Words = %q", w3w)
	}
}

func TestEnhanceNoCoordinatesOmitsLocationFields(t *testing.T) {
	rec := extract.NewRecord()
	rec.Set("Image_Make", "Nikon")
	rec.Set("Image_Model", "D850")
	rec.Set("EXIF_DateTimeOriginal", "2019:01/01 10:00:00")

	e := NewEnhancer(
		&fakeGeocoder{addr: &geocode.Address{Country: "Nowhere"}},
		nil,
		&fakeMapWriter{path: "/tmp/should-not-appear.html"},
		nil,
	)
	out := e.Enhance(rec, writeTempImage(t))

	for _, key := range []string{"OSINT_Coordinates", "OSINT_Country", "OSINT_Google_Maps", "OSINT_Map_File"} {
		if out.Has(key) {
			t.Errorf("field %q must be omitted without a coordinate", key)
		}
	}
	if got := out.GetString("OSINT_Device_Fingerprint"); got != "Nikon D850" {
		t.Errorf("OSINT_Device_Fingerprint = %q", got)
	}
}

func TestEnhanceMapArtifact(t *testing.T) {
	e := NewEnhancer(&fakeGeocoder{addr: &geocode.Address{}}, nil, &fakeMapWriter{path: "/tmp/osint_map_xyz.html"}, nil)
	out := e.Enhance(gpsRecord(), writeTempImage(t))

	if got := out.GetString("OSINT_Map_File"); got != "/tmp/osint_map_xyz.html" {
		t.Errorf("OSINT_Map_File = %q", got)
	}
}

func TestEnhanceAnalysisPanicIsIsolated(t *testing.T) {
	e := NewEnhancer(panickyGeocoder{}, nil, nil, nil)
	out := e.Enhance(gpsRecord(), writeTempImage(t))

	if got := out.GetString("OSINT_GPS_Error"); !strings.Contains(got, "geocoder blew up") {
		t.Errorf("OSINT_GPS_Error = %q", got)
	}
	if out.Has("OSINT_Error") {
		t.Error("a single analysis failure must not surface as the top-level error")
	}
	// The analyses after the failing one still contribute.
	if got := out.GetString("OSINT_Camera_Make"); got != "Canon" {
		t.Errorf("camera analysis aborted: OSINT_Camera_Make = %q", got)
	}
	if !out.Has("OSINT_Timestamps_Found") {
		t.Error("time analysis aborted")
	}
	if !out.Has("OSINT_SHA256_Hash") {
		t.Error("forensic analysis aborted")
	}
}

func TestEnhanceMapWriterPanicDropsField(t *testing.T) {
	e := NewEnhancer(&fakeGeocoder{addr: &geocode.Address{}}, nil, panickyMapWriter{}, nil)
	out := e.Enhance(gpsRecord(), writeTempImage(t))

	if out.Has("OSINT_Map_File") {
		t.Error("map panic must drop the field silently")
	}
	if out.Has("OSINT_Error") {
		t.Error("map panic must not surface as the top-level error")
	}
}

func TestEnhanceMapWriterFailureDropsField(t *testing.T) {
	e := NewEnhancer(&fakeGeocoder{addr: &geocode.Address{}}, nil, &fakeMapWriter{err: errors.New("disk full")}, nil)
	out := e.Enhance(gpsRecord(), writeTempImage(t))

	if out.Has("OSINT_Map_File") {
		t.Error("map failure must drop the field silently")
	}
}

func TestExtractOSINTFallsBackWithoutEnhancer(t *testing.T) {
	x := extract.NewExtractor(nil)
	path := writeTempImage(t)

	rec := ExtractOSINT(x, nil, path)
	if rec == nil {
		t.Fatal("expected a record")
	}
	for _, key := range rec.Keys() {
		if strings.HasPrefix(key, "OSINT_") {
			t.Errorf("no enhancer configured but found %q", key)
		}
	}
}
