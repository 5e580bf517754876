package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	restore := Set(func() time.Time { return fixed })
	assert.Equal(t, fixed, Now())
	restore()
	assert.NotEqual(t, fixed, Now())
}
