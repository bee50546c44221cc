package extract

import (
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// makerNotes is pass 6: vendor-proprietary note tags. The presence flag is
// always set once the EXIF block is readable, so a clean file reports
// MakerNotes_Present = NO rather than staying silent.
func (e *Extractor) makerNotes(path string) *Record {
	rec := NewRecord()
	f, err := os.Open(path)
	if err != nil {
		e.log.Warnf("maker notes: %v", err)
		return rec
	}
	defer f.Close()

	c := newTagCollector(func(name string) bool {
		return strings.Contains(strings.ToLower(name), "makernote")
	})
	if x, err := exif.Decode(f); err == nil {
		_ = x.Walk(c)
	}

	if len(c.tags) == 0 {
		rec.Set("MakerNotes_Present", "NO")
		return rec
	}

	rec.Set("MakerNotes_Present", "YES")
	for _, name := range c.sortedNames() {
		if v, ok := Normalize(rawFromTag(c.tags[name])); ok {
			rec.Set("MAKER_"+name, v)
		}
	}
	rec.Set("MakerNotes_Count", len(c.tags))
	return rec
}
