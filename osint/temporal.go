package osint

import (
	"fmt"
	"strings"

	"photoOsint/extract"
)

// timeAnalysis collects the timestamp-bearing fields into a short timeline.
// Values are filtered to ones that look like a 201x/202x date, which weeds
// out exposure times and other numeric fields whose keys mention "time".
func (e *Enhancer) timeAnalysis(rec *extract.Record) *extract.Record {
	out := extract.NewRecord()

	type stamp struct{ key, value string }
	var stamps []stamp
	for _, key := range rec.Keys() {
		lower := strings.ToLower(key)
		if !strings.Contains(lower, "date") && !strings.Contains(lower, "time") {
			continue
		}
		v := rec.GetString(key)
		if strings.Contains(v, "201") || strings.Contains(v, "202") {
			stamps = append(stamps, stamp{key, v})
		}
	}

	if len(stamps) > 0 {
		out.Set("OSINT_Timestamps_Found", len(stamps))
		for i, s := range stamps {
			if i >= 5 {
				break
			}
			out.Set(fmt.Sprintf("OSINT_Time_%d", i+1), fmt.Sprintf("%s: %s", s.key, s.value))
		}
		if len(stamps) > 1 {
			out.Set("OSINT_Time_Analysis", "Multiple timestamps - timeline available")
		}
	}

	for _, key := range rec.Keys() {
		if strings.Contains(strings.ToLower(key), "timezone") {
			out.Set("OSINT_Timezone", rec.GetString(key))
			break
		}
	}
	return out
}
