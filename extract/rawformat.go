package extract

import (
	"path/filepath"
	"strings"
)

// rawFormatNames maps camera RAW extensions onto their vendor names.
var rawFormatNames = map[string]string{
	".cr2": "Canon RAW",
	".nef": "Nikon RAW",
	".arw": "Sony RAW",
	".dng": "Digital Negative",
	".orf": "Olympus RAW",
	".rw2": "Panasonic RAW",
}

// rawFormat is pass 10: camera RAW identification by extension. The flag is
// always present so processed formats report RAW_File = NO explicitly.
func (e *Extractor) rawFormat(path string) *Record {
	rec := NewRecord()
	ext := strings.ToLower(filepath.Ext(path))
	if name, ok := rawFormatNames[ext]; ok {
		rec.Set("RAW_Format", name)
		rec.Set("RAW_File", "YES")
	} else {
		rec.Set("RAW_File", "NO")
	}
	return rec
}
