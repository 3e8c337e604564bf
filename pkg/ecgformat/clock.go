package ecgformat

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// DefaultRate is the MIT-BIH sampling rate in Hz
const DefaultRate = 360.0

// Clock converts between sample indices and elapsed recording time
type Clock struct {
	rate float64
}

// NewClock creates a clock for a sampling rate in Hz; non-positive rates fall back to DefaultRate
func NewClock(rate float64) Clock {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		rate = DefaultRate
	}
	return Clock{rate: rate}
}

// Rate returns samples per second
func (c Clock) Rate() float64 {
	if c.rate == 0 {
		return DefaultRate
	}
	return c.rate
}

// Elapsed returns the time offset of a sample
func (c Clock) Elapsed(sample int) time.Duration {
	return time.Duration(float64(sample) / c.Rate() * float64(time.Second))
}

// SampleAt returns the sample nearest to an elapsed time
func (c Clock) SampleAt(d time.Duration) int {
	return int(math.Round(d.Seconds() * c.Rate()))
}

// Format renders a sample's offset as m:ss.mmm, or h:mm:ss.mmm past an hour
func (c Clock) Format(sample int) string {
	d := c.Elapsed(sample)
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}

	ms := d.Milliseconds()
	h := ms / 3_600_000
	m := (ms / 60_000) % 60
	s := (ms / 1000) % 60
	ms %= 1000

	if h > 0 {
		return fmt.Sprintf("%s%d:%02d:%02d.%03d", sign, h, m, s, ms)
	}
	return fmt.Sprintf("%s%d:%02d.%03d", sign, m, s, ms)
}

// Accepted time forms:
//
//	90s  1.5s  250ms       (Go duration)
//	1:30  1:30.250         (m:ss[.fff])
//	1:02:03  1:02:03.5     (h:mm:ss[.fff])
var clockPattern = regexp.MustCompile(`^(?:(\d+):)?(\d+):(\d{1,2}(?:\.\d+)?)$`)

// ParseTime converts a time expression into a sample index
func (c Clock) ParseTime(input string) (int, error) {
	if m := clockPattern.FindStringSubmatch(input); m != nil {
		var hours, minutes int
		var err error
		if m[1] != "" {
			if hours, err = strconv.Atoi(m[1]); err != nil {
				return 0, err
			}
		}
		if minutes, err = strconv.Atoi(m[2]); err != nil {
			return 0, err
		}
		seconds, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return 0, err
		}
		if seconds >= 60 {
			return 0, fmt.Errorf("invalid time %q: seconds out of range", input)
		}

		total := float64(hours*3600+minutes*60) + seconds
		return int(math.Round(total * c.Rate())), nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", input)
	}
	return c.SampleAt(d), nil
}

// IsTime reports whether input looks like a time rather than a sample number
func IsTime(input string) bool {
	if clockPattern.MatchString(input) {
		return true
	}
	_, err := time.ParseDuration(input)
	return err == nil && input != "0"
}
