// Package osmmap renders a self-contained single-marker map document.
package osmmap

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
)

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Popup}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.Lat}}, {{.Lon}}], {{.Zoom}});
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
	attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
L.marker([{{.Lat}}, {{.Lon}}])
	.addTo(map)
	.bindPopup({{.Popup}})
	.bindTooltip({{.Tooltip}});
</script>
</body>
</html>
`))

// Writer produces map documents under a fixed directory, the system temp
// directory by default.
type Writer struct {
	dir  string
	zoom int
}

func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Writer{dir: dir, zoom: 15}
}

// Write renders a marker page for the coordinate and returns its path. The
// filename is derived from the coordinate, so repeated calls for the same
// location overwrite the same file instead of accumulating copies.
func (w *Writer) Write(lat, lon float64, popup, tooltip string) (string, error) {
	sum := md5.Sum([]byte(strconv.FormatFloat(lat, 'f', -1, 64) + strconv.FormatFloat(lon, 'f', -1, 64)))
	path := filepath.Join(w.dir, fmt.Sprintf("osint_map_%s.html", hex.EncodeToString(sum[:])))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create map document: %w", err)
	}
	defer f.Close()

	data := struct {
		Lat, Lon       float64
		Zoom           int
		Popup, Tooltip string
	}{lat, lon, w.zoom, popup, tooltip}
	if err := pageTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("render map document: %w", err)
	}
	return path, nil
}
