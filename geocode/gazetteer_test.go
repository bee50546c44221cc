package geocode

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGazetteerFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "places.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

const gazetteerCSV = `lat,lon,name,admin1,admin2,cc
40.4406,-79.9959,Pittsburgh,Pennsylvania,Allegheny County,US
51.5074,-0.1278,London,England,Greater London,GB
48.8566,2.3522,Paris,Ile-de-France,Paris,FR
`

func TestLoadGazetteerSkipsHeader(t *testing.T) {
	g, err := LoadGazetteer(writeGazetteerFixture(t, gazetteerCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if g.Size() != 3 {
		t.Errorf("expected 3 places, got %d", g.Size())
	}
}

func TestGazetteerLookupNearest(t *testing.T) {
	g, err := LoadGazetteer(writeGazetteerFixture(t, gazetteerCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	place, err := g.Lookup(40.45, -79.98)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if place.Name != "Pittsburgh" {
		t.Errorf("expected Pittsburgh, got %q", place.Name)
	}
	if place.CountryCode != "US" {
		t.Errorf("CountryCode = %q", place.CountryCode)
	}

	place, err = g.Lookup(51.5, -0.1)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if place.Name != "London" {
		t.Errorf("expected London, got %q", place.Name)
	}
}

func TestLoadGazetteerBadRow(t *testing.T) {
	bad := "lat,lon,name,admin1,admin2,cc\nnot-a-number,2.0,X,Y,Z,QQ\n"
	if _, err := LoadGazetteer(writeGazetteerFixture(t, bad)); err == nil {
		t.Error("expected an error for a non-numeric data row")
	}
}

func TestLoadGazetteerMissingFile(t *testing.T) {
	if _, err := LoadGazetteer("/nonexistent/places.csv"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadGazetteerEmpty(t *testing.T) {
	if _, err := LoadGazetteer(writeGazetteerFixture(t, "lat,lon,name,admin1,admin2,cc\n")); err == nil {
		t.Error("expected an error for a header-only file")
	}
}
