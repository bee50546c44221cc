package osint

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"photoOsint/extract"
)

// cameraAnalysis fingerprints the capture device. The first key containing
// each of make/model/serial wins, mirroring the record's insertion order.
func (e *Enhancer) cameraAnalysis(rec *extract.Record) *extract.Record {
	out := extract.NewRecord()

	var make, model, serial string
	for _, key := range rec.Keys() {
		lower := strings.ToLower(key)
		switch {
		case strings.Contains(lower, "make") && make == "":
			make = rec.GetString(key)
		case strings.Contains(lower, "model") && model == "":
			model = rec.GetString(key)
		case strings.Contains(lower, "serial") && serial == "":
			serial = rec.GetString(key)
		}
	}

	if make != "" {
		out.Set("OSINT_Camera_Make", make)
	}
	if model != "" {
		out.Set("OSINT_Camera_Model", model)
	}
	if serial != "" {
		out.Set("OSINT_Camera_Serial", serial)
		md5Sum := md5.Sum([]byte(serial))
		sha1Sum := sha1.Sum([]byte(serial))
		out.Set("OSINT_Serial_Hash_MD5", hex.EncodeToString(md5Sum[:]))
		out.Set("OSINT_Serial_Hash_SHA1", hex.EncodeToString(sha1Sum[:]))
	}

	if make != "" && model != "" {
		out.Set("OSINT_Device_Fingerprint", make+" "+model)
		q := url.QueryEscape(make + " " + model + " camera")
		out.Set("OSINT_Device_Search", "https://www.google.com/search?q="+q)
	}

	if lens := lensInfo(rec); lens != "" {
		out.Set("OSINT_Lens_Info", lens)
	}
	return out
}

// lensInfo joins every lens, focal-length and aperture field into one line.
func lensInfo(rec *extract.Record) string {
	var parts []string
	for _, key := range rec.Keys() {
		lower := strings.ToLower(key)
		switch {
		case strings.Contains(lower, "lens"):
			parts = append(parts, fmt.Sprintf("%s: %s", key, rec.GetString(key)))
		case strings.Contains(lower, "focal") && strings.Contains(lower, "length"):
			parts = append(parts, "Focal: "+rec.GetString(key))
		case strings.Contains(lower, "aperture"):
			parts = append(parts, "Aperture: "+rec.GetString(key))
		}
	}
	return strings.Join(parts, " | ")
}
