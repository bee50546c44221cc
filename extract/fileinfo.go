package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// fileInfo is pass 1: plain filesystem attributes.
func (e *Extractor) fileInfo(path string) *Record {
	rec := NewRecord()
	info, err := os.Stat(path)
	if err != nil {
		e.log.Warnf("file info: %v", err)
		return rec
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	rec.Set("File_Path", abs)
	rec.Set("File_Name", filepath.Base(path))
	rec.Set("File_Size_Bytes", info.Size())
	rec.Set("File_Size_MB", fmt.Sprintf("%.2f", float64(info.Size())/(1024*1024)))
	rec.Set("File_Created", CreationTime(info).Format(time.RFC3339))
	rec.Set("File_Modified", info.ModTime().Format(time.RFC3339))
	rec.Set("File_Extension", strings.ToLower(filepath.Ext(path)))
	return rec
}
