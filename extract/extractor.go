package extract

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Extractor runs the full ten-pass metadata aggregation. Every pass fails
// independently: a broken EXIF block, an unreadable container or a corrupt
// ICC profile reduces that pass's contribution without touching the others.
type Extractor struct {
	log *logrus.Logger
}

func NewExtractor(log *logrus.Logger) *Extractor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Extractor{log: log}
}

// Extract aggregates everything the readers can pull out of the file into a
// single flat record. It never returns an error: on total failure the
// record carries a single Error field instead.
func (e *Extractor) Extract(path string) (rec *Record) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("extraction failed for %s: %v", path, r)
			rec = NewRecord()
			rec.Set("Error", fmt.Sprintf("Extraction failed: %v", r))
		}
	}()

	rec = NewRecord()
	e.log.Infof("starting deep analysis: %s", path)

	passes := []struct {
		name string
		fn   func(string) *Record
	}{
		{"file info", e.fileInfo},
		{"deep exif", e.deepExif},
		{"image info", e.imageInfo},
		{"ifd walk", e.ifdWalk},
		{"detailed gps", e.detailedGPS},
		{"maker notes", e.makerNotes},
		{"technical specs", e.technicalSpecs},
		{"color profile", e.colorProfile},
		{"xmp iptc", e.xmpIPTC},
		{"raw format", e.rawFormat},
	}
	for _, p := range passes {
		rec.Merge(e.runPass(p.name, path, p.fn))
	}

	e.log.Infof("extracted %d metadata fields from %s", rec.Len(), path)
	return rec
}

// runPass contains a single pass so a panic inside one reader cannot abort
// the remaining passes.
func (e *Extractor) runPass(name, path string, fn func(string) *Record) (out *Record) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warnf("%s pass failed for %s: %v", name, path, r)
			if out == nil {
				out = NewRecord()
			}
		}
	}()
	return fn(path)
}
