//go:build !linux

package extract

import (
	"os"
	"time"
)

// CreationTime falls back to the modification time on platforms where the
// stat result does not expose a change time.
func CreationTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
