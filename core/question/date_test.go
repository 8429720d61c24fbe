package question

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "blank", in: "   ", want: ""},
		{name: "plain date", in: "2024-05-01", want: "2024-05-01"},
		{name: "ISO timestamp", in: "2024-05-01T00:00:00.000Z", want: "2024-05-01"},
		{name: "timestamp with offset", in: "2024-05-01T23:30:00+05:30", want: "2024-05-01"},
		{name: "space separated", in: "2024-05-01 10:00:00", want: "2024-05-01"},
		{name: "surrounding whitespace", in: " 2024-05-01 ", want: "2024-05-01"},
		{name: "not a date", in: "tomorrow", want: "tomorrow"},
		{name: "wrong separators", in: "2024/05/01", want: "2024/05/01"},
		{name: "trailing junk", in: "2024-05-01x", want: "2024-05-01x"},
		{name: "too short", in: "2024-5-1", want: "2024-5-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeDate(got), "not idempotent")
		})
	}
}

func TestDateKey(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	ts := time.Date(2024, 4, 30, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-04-30", DateKey(ts))
	assert.Equal(t, "2024-05-01", DateKey(ts.In(ist)))
}
