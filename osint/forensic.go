package osint

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"time"

	"photoOsint/extract"
)

// forensicAnalysis hashes the file and records its size, timestamps and a
// filename-pattern observation. An unreadable file reports
// OSINT_Forensic_Error instead of partial fields.
func (e *Enhancer) forensicAnalysis(imagePath string) *extract.Record {
	out := extract.NewRecord()

	data, err := os.ReadFile(imagePath)
	if err != nil {
		out.Set("OSINT_Forensic_Error", err.Error())
		return out
	}

	md5Sum := md5.Sum(data)
	sha1Sum := sha1.Sum(data)
	sha256Sum := sha256.Sum256(data)
	out.Set("OSINT_MD5_Hash", hex.EncodeToString(md5Sum[:]))
	out.Set("OSINT_SHA1_Hash", hex.EncodeToString(sha1Sum[:]))
	out.Set("OSINT_SHA256_Hash", hex.EncodeToString(sha256Sum[:]))

	if info, err := os.Stat(imagePath); err == nil {
		out.Set("OSINT_File_Size_Bytes", info.Size())
		out.Set("OSINT_File_Created", extract.CreationTime(info).Format(time.RFC3339))
		out.Set("OSINT_File_Modified", info.ModTime().Format(time.RFC3339))
	}

	filename := filepath.Base(imagePath)
	out.Set("OSINT_Filename_Analysis", filename)
	lower := strings.ToLower(filename)
	for _, pattern := range []string{"img", "dsc", "photo", "pic"} {
		if strings.Contains(lower, pattern) {
			out.Set("OSINT_Filename_Pattern", "Common camera naming pattern")
			break
		}
	}
	return out
}
