package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestButtonsHas(t *testing.T) {
	held := ButtonBack | ButtonStart | ButtonA

	assert.True(t, held.Has(ButtonBack|ButtonStart))
	assert.True(t, held.Has(ButtonA))
	assert.False(t, held.Has(ButtonBack|ButtonGuide))
	assert.True(t, held.Has(0))
}

func TestButtonsString(t *testing.T) {
	assert.Equal(t, "none", Buttons(0).String())
	assert.Equal(t, "start+back", (ButtonBack | ButtonStart).String())
	assert.Equal(t, "lb+rb+guide", (ButtonGuide | ButtonLeftShoulder | ButtonRightShoulder).String())
}

func TestParseButton(t *testing.T) {
	tests := []struct {
		in   string
		want Buttons
		ok   bool
	}{
		{"back", ButtonBack, true},
		{"View", ButtonBack, true},
		{"menu", ButtonStart, true},
		{" guide ", ButtonGuide, true},
		{"home", ButtonGuide, true},
		{"lb", ButtonLeftShoulder, true},
		{"r3", ButtonRightThumb, true},
		{"turbo", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseButton(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeSnapshots(t *testing.T) {
	t0 := time.Unix(100, 0)
	t1 := t0.Add(10 * time.Millisecond)

	a := RawInputSnapshot{
		Buttons:   ButtonBack,
		Sticks:    [4]int16{1000, -200, 0, 0},
		Triggers:  [2]int16{10, 0},
		Timestamp: t0,
	}
	b := RawInputSnapshot{
		Buttons:   ButtonStart,
		Sticks:    [4]int16{-3000, 100, 5, 0},
		Triggers:  [2]int16{5, 300},
		Timestamp: t1,
	}

	m := MergeSnapshots(a, b)
	assert.Equal(t, ButtonBack|ButtonStart, m.Buttons)
	assert.Equal(t, [4]int16{-3000, -200, 5, 0}, m.Sticks)
	assert.Equal(t, [2]int16{10, 300}, m.Triggers)
	assert.Equal(t, t1, m.Timestamp)

	assert.Equal(t, RawInputSnapshot{}, MergeSnapshots())
}

func TestMergeSnapshotsMinInt16(t *testing.T) {
	m := MergeSnapshots(RawInputSnapshot{Sticks: [4]int16{-32768, 0, 0, 0}}, RawInputSnapshot{Sticks: [4]int16{32767, 0, 0, 0}})
	assert.Equal(t, int16(-32768), m.Sticks[0])
}
