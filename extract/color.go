package extract

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf16"
)

// colorProfile is pass 8: embedded color-management profile detection. For
// containers where the profile can be located (JPEG APP2 chunks, PNG iCCP)
// the header and tag table are parsed for the human-readable fields; a
// malformed profile records a parse-error field instead of staying silent.
func (e *Extractor) colorProfile(path string) *Record {
	rec := NewRecord()
	raw, err := os.ReadFile(path)
	if err != nil {
		e.log.Warnf("color profile: %v", err)
		return rec
	}

	profile, recognized := extractICCProfile(raw)
	if !recognized {
		return rec
	}
	if len(profile) == 0 {
		rec.Set("Color_ICC_Present", "NO")
		return rec
	}

	rec.Set("Color_ICC_Present", "YES")
	rec.Set("Color_ICC_Size_Bytes", len(profile))

	info, err := parseICCProfile(profile)
	if err != nil {
		rec.Set("Color_ICC_Error", fmt.Sprintf("Profile parsing: %v", err))
		return rec
	}
	if info.Description != "" {
		rec.Set("Color_ICC_Description", info.Description)
	}
	if info.Manufacturer != "" {
		rec.Set("Color_ICC_Manufacturer", info.Manufacturer)
	}
	if info.Model != "" {
		rec.Set("Color_ICC_Model", info.Model)
	}
	if info.Copyright != "" {
		rec.Set("Color_ICC_Copyright", info.Copyright)
	}
	return rec
}

// extractICCProfile locates an embedded profile. The second return reports
// whether the container format was recognized at all; unrecognized
// containers contribute nothing, recognized ones without a profile report
// absence.
func extractICCProfile(data []byte) ([]byte, bool) {
	switch {
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return jpegICCProfile(data), true
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return pngICCProfile(data), true
	case bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")):
		return nil, true
	case bytes.HasPrefix(data, []byte("BM")):
		return nil, true
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return nil, true
	case bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")):
		return nil, true
	}
	return nil, false
}

// jpegICCProfile walks the APP segments collecting the multi-chunk
// ICC_PROFILE payload.
func jpegICCProfile(data []byte) []byte {
	const prefix = "ICC_PROFILE\x00"
	type iccChunk struct {
		seq     int
		payload []byte
	}
	var chunks []iccChunk

	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			break
		}
		marker := data[pos+1]
		if marker == 0xD9 || marker == 0xDA { // EOI / SOS
			break
		}
		segLen := int(data[pos+2])<<8 | int(data[pos+3])
		if segLen < 2 || pos+2+segLen > len(data) {
			break
		}
		seg := data[pos+4 : pos+2+segLen]
		if marker == 0xE2 && len(seg) > len(prefix)+2 && string(seg[:len(prefix)]) == prefix {
			chunks = append(chunks, iccChunk{
				seq:     int(seg[len(prefix)]),
				payload: seg[len(prefix)+2:],
			})
		}
		pos += 2 + segLen
	}
	if len(chunks) == 0 {
		return nil
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].seq < chunks[j].seq })
	var out []byte
	for _, c := range chunks {
		out = append(out, c.payload...)
	}
	return out
}

// pngICCProfile finds the iCCP chunk and inflates its zlib payload.
func pngICCProfile(data []byte) []byte {
	pos := 8
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos:]))
		typ := string(data[pos+4 : pos+8])
		end := pos + 8 + length
		if end+4 > len(data) {
			break
		}
		if typ == "iCCP" {
			chunk := data[pos+8 : end]
			i := bytes.IndexByte(chunk, 0)
			if i < 0 || i+2 > len(chunk) {
				return nil
			}
			zr, err := zlib.NewReader(bytes.NewReader(chunk[i+2:]))
			if err != nil {
				return nil
			}
			defer zr.Close()
			profile, err := io.ReadAll(zr)
			if err != nil {
				return nil
			}
			return profile
		}
		if typ == "IDAT" || typ == "IEND" {
			break
		}
		pos = end + 4
	}
	return nil
}

type iccInfo struct {
	Description  string
	Manufacturer string
	Model        string
	Copyright    string
}

// parseICCProfile reads the 128-byte header signatures and the tag table
// entries for the description and copyright strings.
func parseICCProfile(p []byte) (iccInfo, error) {
	var info iccInfo
	if len(p) < 132 {
		return info, errors.New("profile shorter than header")
	}
	info.Manufacturer = iccSignature(p[48:52])
	info.Model = iccSignature(p[52:56])

	count := binary.BigEndian.Uint32(p[128:132])
	if count > 1024 {
		return info, fmt.Errorf("implausible tag count %d", count)
	}
	for i := 0; i < int(count); i++ {
		base := 132 + i*12
		if base+12 > len(p) {
			return info, errors.New("truncated tag table")
		}
		sig := string(p[base : base+4])
		off := int(binary.BigEndian.Uint32(p[base+4 : base+8]))
		size := int(binary.BigEndian.Uint32(p[base+8 : base+12]))
		if off < 0 || size < 0 || off+size > len(p) {
			return info, fmt.Errorf("tag %q out of bounds", sig)
		}
		switch sig {
		case "desc":
			info.Description = iccText(p[off : off+size])
		case "cprt":
			info.Copyright = iccText(p[off : off+size])
		}
	}
	return info, nil
}

// iccSignature renders a 4-byte header signature, empty when unset.
func iccSignature(b []byte) string {
	s := strings.TrimRight(string(b), "\x00 ")
	for _, c := range s {
		if c < 0x20 || c > 0x7E {
			return ""
		}
	}
	return s
}

// iccText decodes the three string encodings profiles use in practice:
// textDescriptionType, textType and multiLocalizedUnicodeType.
func iccText(b []byte) string {
	if len(b) < 8 {
		return ""
	}
	switch string(b[:4]) {
	case "desc":
		if len(b) < 12 {
			return ""
		}
		n := int(binary.BigEndian.Uint32(b[8:12]))
		if n <= 0 || 12+n > len(b) {
			return ""
		}
		return strings.TrimRight(string(b[12:12+n]), "\x00")
	case "text":
		return strings.TrimRight(string(b[8:]), "\x00")
	case "mluc":
		if len(b) < 28 {
			return ""
		}
		if binary.BigEndian.Uint32(b[8:12]) == 0 {
			return ""
		}
		strLen := int(binary.BigEndian.Uint32(b[20:24]))
		strOff := int(binary.BigEndian.Uint32(b[24:28]))
		if strLen <= 0 || strOff < 0 || strOff+strLen > len(b) {
			return ""
		}
		raw := b[strOff : strOff+strLen]
		u16 := make([]uint16, 0, len(raw)/2)
		for i := 0; i+1 < len(raw); i += 2 {
			u16 = append(u16, binary.BigEndian.Uint16(raw[i:]))
		}
		return strings.TrimRight(string(utf16.Decode(u16)), "\x00")
	}
	return ""
}
