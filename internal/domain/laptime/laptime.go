// Package laptime converts the M:S:C time-trial encoding into milliseconds.
//
// The third component counts hundredths of a second, so each unit is worth
// 10ms. Malformed input never fails: Parse maps it to zero, ParseStrict
// reports it and yields the Unparsed sentinel.
package laptime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Conversion factors to milliseconds.
const (
	msPerMinute    = 60_000
	msPerSecond    = 1_000
	msPerHundredth = 10

	separator  = ":"
	components = 3

	// maxPart caps each component so combine stays below Unparsed.
	maxPart = (math.MaxInt64 - 1) / (msPerMinute + msPerSecond + msPerHundredth)
)

// Duration is an elapsed time in milliseconds.
type Duration int64

// Unparsed marks a time that ParseStrict could not read. It orders after
// every real duration.
const Unparsed Duration = math.MaxInt64

// Parse converts s to a Duration. A string that does not split into
// exactly three colon-separated parts is zero, and so is any single part
// without a leading run of digits. Zero ranks as the fastest possible time.
func Parse(s string) Duration {
	parts := strings.Split(s, separator)
	if len(parts) != components {
		return 0
	}
	return combine(leadingInt(parts[0]), leadingInt(parts[1]), leadingInt(parts[2]))
}

// ParseStrict converts s only when it has three fully numeric parts.
// Anything else returns (Unparsed, false).
func ParseStrict(s string) (Duration, bool) {
	parts := strings.Split(s, separator)
	if len(parts) != components {
		return Unparsed, false
	}
	var v [components]int64
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return Unparsed, false
		}
		v[i] = digits(p)
	}
	return combine(v[0], v[1], v[2]), true
}

// Valid reports whether s would parse strictly.
func Valid(s string) bool {
	_, ok := ParseStrict(s)
	return ok
}

func combine(minutes, seconds, hundredths int64) Duration {
	return Duration(minutes*msPerMinute + seconds*msPerSecond + hundredths*msPerHundredth)
}

// leadingInt reads the run of ASCII digits at the start of the trimmed
// string. No digits or a sign gives 0.
func leadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	return digits(s[:end])
}

// digits converts a non-empty run of ASCII digits, clamped to maxPart.
func digits(s string) int64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n > maxPart {
		return maxPart
	}
	return int64(n)
}

// Milliseconds returns d as an integer millisecond count.
func (d Duration) Milliseconds() int64 { return int64(d) }

// Std converts d to a time.Duration. Unparsed has no finite equivalent and
// converts to zero.
func (d Duration) Std() time.Duration {
	if d == Unparsed {
		return 0
	}
	return time.Duration(d) * time.Millisecond
}

// String renders d back in M:SS:CC form. Sub-hundredth remainders are
// truncated.
func (d Duration) String() string {
	if d == Unparsed {
		return "unparsed"
	}
	ms := int64(d)
	return fmt.Sprintf("%d:%02d:%02d", ms/msPerMinute, (ms%msPerMinute)/msPerSecond, (ms%msPerSecond)/msPerHundredth)
}
