package virtualpad

import (
	"testing"

	"github.com/bnema/padwatch/internal/input"
	"github.com/stretchr/testify/assert"
)

func TestCodes(t *testing.T) {
	assert.Equal(t, []int{btnSelect, btnStart}, Codes(input.ButtonBack|input.ButtonStart))
	assert.Equal(t, []int{btnMode}, Codes(input.ButtonGuide))
	assert.Empty(t, Codes(0))
}

func TestEveryButtonHasACode(t *testing.T) {
	var all input.Buttons
	for _, k := range keyCodes {
		all |= k.mask
	}
	assert.Len(t, Codes(all), len(keyCodes))

	seen := map[int]bool{}
	for _, k := range keyCodes {
		assert.False(t, seen[k.code], "duplicate code 0x%x", k.code)
		seen[k.code] = true
	}
}
