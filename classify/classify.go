// Package classify groups flat metadata keys into display categories. The
// rules are ordered first-match substring checks on the lowercased key, so a
// key mentioning both a camera term and a GPS term lands in the earlier
// category.
package classify

import (
	"strings"

	"photoOsint/extract"
)

// OtherCategory receives every key no rule claims.
const OtherCategory = "Other Metadata"

type rule struct {
	category   string
	substrings []string
}

var rules = []rule{
	{"File Information", []string{"file_", "name", "size", "path", "extension"}},
	{"Camera & Lens", []string{"make", "model", "lens", "serial", "camera", "manufacturer"}},
	{"Capture Settings", []string{"exposure", "aperture", "iso", "focal", "shutter", "white", "flash", "metering"}},
	{"GPS & Location", []string{"gps"}},
	{"Date & Time", []string{"date", "time"}},
	{"Image Properties", []string{"width", "height", "mode", "format", "size", "technical", "image_"}},
	{"Color & Profiles", []string{"color", "icc", "profile"}},
	{"RAW Information", []string{"raw"}},
	{"OSINT Intelligence", []string{"osint"}},
	{"EXIF Data", []string{"exif"}},
}

// Categories lists every category in display order, OtherCategory last.
func Categories() []string {
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, OtherCategory)
}

// Categorize names the category a key belongs to.
func Categorize(key string) string {
	lower := strings.ToLower(key)
	for _, r := range rules {
		for _, s := range r.substrings {
			if strings.Contains(lower, s) {
				return r.category
			}
		}
	}
	return OtherCategory
}

// Entry is one key/value pair inside a category.
type Entry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// Group is a non-empty category with its entries in record order.
type Group struct {
	Category string  `json:"category"`
	Entries  []Entry `json:"entries"`
}

// GroupRecord splits a record into categories. Empty categories are
// omitted; within a category the record's insertion order is preserved.
func GroupRecord(rec *extract.Record) []Group {
	byCategory := make(map[string][]Entry)
	for _, key := range rec.Keys() {
		v, _ := rec.Get(key)
		cat := Categorize(key)
		byCategory[cat] = append(byCategory[cat], Entry{Key: key, Value: v})
	}

	var out []Group
	for _, cat := range Categories() {
		if entries, ok := byCategory[cat]; ok {
			out = append(out, Group{Category: cat, Entries: entries})
		}
	}
	return out
}
