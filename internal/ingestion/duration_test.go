package ingestion

import (
	"fmt"
	"math"
	"testing"
)

func TestParseDurationMinutesFormats(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"5 minutes and 39 seconds", 5 + 39.0/60},
		{"1 hour and 2 minutes", 62},
		{"45 seconds", 45.0 / 60},
		{"5.5", 5.5},
		{"1:23", 1 + 23.0/60},
		{"", 0},
		{"garbage", 0},
	}
	for _, c := range cases {
		if got := ParseDurationMinutes(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("ParseDurationMinutes(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseDurationMinutesRoundTripLaw(t *testing.T) {
	for m := 0; m < 5; m++ {
		for s := 0; s < 60; s += 7 {
			in := fmt.Sprintf("%d minutes and %d seconds", m, s)
			want := float64(m) + float64(s)/60
			if got := ParseDurationMinutes(in); math.Abs(got-want) > 1e-9 {
				t.Errorf("ParseDurationMinutes(%q) = %v, want %v", in, got, want)
			}
		}
	}
}
