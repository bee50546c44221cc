package extract

import (
	"bytes"
	"os"
	"strings"
)

// xmpScanCap bounds how much of an embedded XMP packet is kept verbatim.
const xmpScanCap = 20000

// iptcSampleCap bounds the leading file sample kept when IPTC is present.
const iptcSampleCap = 4000

// xmpIPTC is pass 9: embedded XMP packets and IPTC/Photoshop resource
// blocks, located by byte-scanning the container rather than by format-aware
// parsing so the pass works the same across every container.
func (e *Extractor) xmpIPTC(path string) *Record {
	rec := NewRecord()
	data, err := os.ReadFile(path)
	if err != nil {
		e.log.Warnf("xmp iptc: %v", err)
		return rec
	}

	if xmp := scanXMPPacket(data); xmp != "" {
		rec.Set("XMP_Present", "YES")
		rec.Set("XMP_Raw", xmp)
	} else {
		rec.Set("XMP_Present", "NO")
	}

	if sample, ok := scanIPTCBlock(data); ok {
		rec.Set("IPTC_Present", "YES")
		rec.Set("IPTC_Sample", sample)
	} else {
		rec.Set("IPTC_Present", "NO")
	}
	return rec
}

// scanXMPPacket finds the first XMP packet by its opening marker and returns
// it through the matching closer, capped and sanitized to valid UTF-8.
func scanXMPPacket(data []byte) string {
	markers := []struct {
		open  string
		close string
	}{
		{"<x:xmpmeta", "</x:xmpmeta>"},
		{"<?xpacket", "<?xpacket end"},
	}
	for _, m := range markers {
		start := bytes.Index(data, []byte(m.open))
		if start == -1 {
			continue
		}
		rest := data[start:]
		packet := rest
		if end := bytes.Index(rest, []byte(m.close)); end != -1 {
			// Include the closer through its terminating '>'. Only a
			// packet with no closer at all gets truncated.
			tail := rest[end:]
			if gt := bytes.IndexByte(tail, '>'); gt != -1 {
				packet = rest[:end+gt+1]
			}
		} else if len(packet) > xmpScanCap {
			packet = packet[:xmpScanCap]
		}
		return strings.TrimSpace(string(bytes.ToValidUTF8(packet, []byte(""))))
	}
	return ""
}

// scanIPTCBlock reports whether any of the Photoshop resource signatures
// that carry IPTC data appear in the file. On a hit the sample is the leading
// bytes of the file, permissively decoded, not the bytes around the
// signature.
func scanIPTCBlock(data []byte) (string, bool) {
	for _, sig := range []string{"Photoshop 3.0", "8BIM", "IPTC"} {
		if !bytes.Contains(data, []byte(sig)) {
			continue
		}
		sample := data
		if len(sample) > iptcSampleCap {
			sample = sample[:iptcSampleCap]
		}
		return string(bytes.ToValidUTF8(sample, []byte(""))), true
	}
	return "", false
}
