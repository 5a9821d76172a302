package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsTermRespectsWordBoundaries(t *testing.T) {
	t.Parallel()

	assert.True(t, containsTerm("dự án ở quận 1 nhé", "quận 1"))
	assert.False(t, containsTerm("dự án ở quận 10", "quận 1"))
	assert.True(t, containsTerm("quận 10, quận 1.", "quận 1"))
	assert.False(t, containsTerm("thanh tân phúc", "tân phú"))
	assert.True(t, containsTerm("tp.hcm", "tp.hcm"))
	assert.Equal(t, 2, countTerm("metro, metro và metros", "metro"))
}

func TestPrecedingWindowCountsRunes(t *testing.T) {
	t.Parallel()

	text := "khởi công đường"
	assert.Equal(t, "đường", precedingWindow(text, len(text), 5))
	assert.Equal(t, text, precedingWindow(text, len(text), 500))
	assert.Equal(t, "", precedingWindow(text, 0, 5))
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "đườ", truncateRunes("đường", 3))
	assert.Equal(t, "abc", truncateRunes("abc", 10))
	assert.Equal(t, "abc", truncateRunes("abc", 0))
}

func TestNormalizeTermsDedups(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"khởi công", "metro"}, normalizeTerms([]string{"Khởi  Công", "khởi công", "", "METRO"}))
}
