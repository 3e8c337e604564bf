package ecgformat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	info, ok := Lookup("V")
	require.True(t, ok)
	assert.Equal(t, ClassVentricular, info.Class)
	assert.Equal(t, "Premature ventricular contraction", Describe("V"))

	info, ok = Lookup("zz")
	assert.False(t, ok)
	assert.Equal(t, ClassOther, info.Class)
	assert.Equal(t, "Unknown code", Describe("zz"))
	assert.Equal(t, "(empty)", Describe(""))

	assert.True(t, IsBeat("N"))
	assert.True(t, IsBeat("/"))
	assert.False(t, IsBeat("+"))
	assert.Equal(t, "S", ClassOf("A").String())
}

func TestClockFormat(t *testing.T) {
	c := NewClock(360)

	assert.Equal(t, "0:00.000", c.Format(0))
	assert.Equal(t, "0:01.000", c.Format(360))
	assert.Equal(t, "0:01.500", c.Format(540))
	assert.Equal(t, "1:00.000", c.Format(360*60))
	assert.Equal(t, "1:00:00.000", c.Format(360*3600))
	assert.Equal(t, "-0:01.000", c.Format(-360))
}

func TestClockParseTime(t *testing.T) {
	c := NewClock(360)

	tests := []struct {
		in   string
		want int
	}{
		{"0:01", 360},
		{"0:01.5", 540},
		{"1:30", 360 * 90},
		{"1:00:00", 360 * 3600},
		{"2s", 720},
		{"250ms", 90},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := c.ParseTime(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []string{"", "abc", "1:75", "12"} {
		_, err := c.ParseTime(bad)
		assert.Error(t, err, bad)
	}
}

func TestClockDefaults(t *testing.T) {
	assert.Equal(t, DefaultRate, NewClock(0).Rate())
	assert.Equal(t, DefaultRate, NewClock(-3).Rate())
	assert.Equal(t, DefaultRate, Clock{}.Rate())
	assert.Equal(t, 250.0, NewClock(250).Rate())

	c := NewClock(250)
	assert.Equal(t, 2*time.Second, c.Elapsed(500))
	assert.Equal(t, 500, c.SampleAt(2*time.Second))
}

func TestIsTime(t *testing.T) {
	assert.True(t, IsTime("0:01"))
	assert.True(t, IsTime("3s"))
	assert.False(t, IsTime("500"))
	assert.False(t, IsTime("0"))
	assert.False(t, IsTime("$-100"))
}
