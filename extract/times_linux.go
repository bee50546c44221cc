//go:build linux

package extract

import (
	"os"
	"syscall"
	"time"
)

// CreationTime reports the closest thing Unix offers to a creation time:
// the inode change time. Falls back to the modification time.
func CreationTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}
	return info.ModTime()
}
