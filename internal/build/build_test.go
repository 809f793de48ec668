package build

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewBuild(t *testing.T) {
	b := newBuild("abc", "2024-05-01T10:00:00Z", "v1.2.3", "https://github.com/ItsNotGoodName/x-stackwm")
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), b.Date)
	assert.Equal(t, "https://github.com/ItsNotGoodName/x-stackwm/tree/abc", b.CommitURL)
	assert.Equal(t, "https://github.com/ItsNotGoodName/x-stackwm/releases/tag/v1.2.3", b.ReleaseURL)

	b = newBuild("", "", "dev", "")
	assert.True(t, b.Date.IsZero())
	assert.Empty(t, b.CommitURL)
	assert.Empty(t, b.ReleaseURL)
}
