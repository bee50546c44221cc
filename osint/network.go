package osint

import (
	"strings"

	"photoOsint/extract"
)

// networkAnalysis surfaces URL and email-like strings hiding in metadata
// values, keyed by the field they were found in.
func (e *Enhancer) networkAnalysis(rec *extract.Record) *extract.Record {
	out := extract.NewRecord()
	for _, key := range rec.Keys() {
		v := rec.GetString(key)
		if strings.Contains(strings.ToLower(v), "http") {
			out.Set("OSINT_URL_In_"+key, v)
		}
		if strings.Contains(v, "@") && strings.Contains(v, ".") {
			out.Set("OSINT_Email_Like_In_"+key, v)
		}
	}
	return out
}
