package bookingapi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var brt = time.FixedZone("BRT", -3*60*60)

func TestNormalizeSlots(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"bare times", `["09:00","09:30"]`, []string{"09:00", "09:30"}},
		{"bare times with seconds", `["09:00:00","09:30:00"]`, []string{"09:00", "09:30"}},
		{"local_time objects", `[{"local_time":"10:00"}]`, []string{"10:00"}},
		{"utc objects", `[{"utc":"2024-01-01T15:00:00Z"}]`, []string{"12:00"}},
		{"iso instants", `["2024-01-01T15:00:00Z","2024-01-01T15:30:00-03:00"]`, []string{"12:00", "15:30"}},
		{"iso without offset is wall clock", `["2024-01-01T15:00:00","2024-01-01T15:30"]`, []string{"15:00", "15:30"}},
		{"utc object without offset", `[{"utc":"2024-01-01T15:00:00"}]`, []string{"12:00"}},
		{"envelope", `{"date":"2024-01-01","slots":["08:00"]}`, []string{"08:00"}},
		{"empty list", `[]`, []string{}},
		{"unexpected object", `{"unexpected":true}`, []string{}},
		{"unknown element shape", `[{"start":"09:00"}]`, []string{}},
		{"numbers", `[900, 930]`, []string{}},
		{"null", `null`, []string{}},
		{"garbage", `not json`, []string{}},
		{"mixed list skips bad rows", `["09:00", 42, "banana", "10:00"]`, []string{"09:00", "10:00"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeSlots(json.RawMessage(tc.raw), brt)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDetectShape_FirstElementDecides(t *testing.T) {
	shape, ok := detectShape(json.RawMessage(`{"local_time":"10:00","utc":"2024-01-01T13:00:00Z"}`))
	assert.True(t, ok)
	assert.Equal(t, "local_time_object", shape.name)

	shape, ok = detectShape(json.RawMessage(`"2024-01-01T13:00:00Z"`))
	assert.True(t, ok)
	assert.Equal(t, "iso_instant", shape.name)

	_, ok = detectShape(json.RawMessage(`true`))
	assert.False(t, ok)
}

func TestNormalizeSlots_ZonelessFollowsLocation(t *testing.T) {
	manaus := time.FixedZone("AMT", -4*60*60)
	got := NormalizeSlots(json.RawMessage(`["2024-01-01T15:00:00","2024-01-01T15:00:00Z"]`), manaus)
	assert.Equal(t, []string{"15:00", "11:00"}, got)
}

func TestNormalizeSlots_NilLocationFallsBackToLocal(t *testing.T) {
	got := NormalizeSlots(json.RawMessage(`[{"utc":"2024-01-01T15:00:00Z"}]`), nil)
	want := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC).In(time.Local).Format("15:04")
	assert.Equal(t, []string{want}, got)
}
