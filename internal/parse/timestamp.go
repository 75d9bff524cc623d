package parse

import (
	"math"
	"strings"
	"time"
)

// epochMillisCutoff is the largest numeric timestamp still read as epoch
// seconds. Anything above it is epoch milliseconds. Second-precision epochs
// past the year 2286 would misparse, which real exports never reach.
const epochMillisCutoff = 9_999_999_999

// timeLayouts are tried in order for string timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// normalizeTime converts whatever timestamp representation an export carries
// into UTC. Absent, zero, and unreadable values all come back as the zero
// time, which the rest of the pipeline treats as "unknown".
func normalizeTime(v any) time.Time {
	switch t := v.(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return t.UTC()
	case float64:
		return fromEpoch(t)
	case int64:
		return fromEpoch(float64(t))
	case int:
		return fromEpoch(float64(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}
		}
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC()
			}
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}

func fromEpoch(v float64) time.Time {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return time.Time{}
	}
	if math.Abs(v) > epochMillisCutoff {
		return time.UnixMilli(int64(v)).UTC()
	}
	sec := int64(v)
	nsec := int64((v - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}
