package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanGenerate(t *testing.T) {
	assert.True(t, CanGenerate(0, 20))
	assert.True(t, CanGenerate(19, 20))
	assert.False(t, CanGenerate(20, 20))
	assert.False(t, CanGenerate(25, 20))
	assert.False(t, CanGenerate(0, 0))
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 20, Remaining(0, 20))
	assert.Equal(t, 1, Remaining(19, 20))
	assert.Equal(t, 0, Remaining(20, 20))
	assert.Equal(t, 0, Remaining(25, 20))
}

func TestCheck_Warning(t *testing.T) {
	// Warning trips at 80% of the cap.
	assert.False(t, Check(15, 20).Warning)
	assert.True(t, Check(16, 20).Warning)
	assert.False(t, Check(16, 20).Exceeded)
}

func TestCheck_Exceeded(t *testing.T) {
	status := Check(20, 20)

	assert.True(t, status.Exceeded)
	assert.True(t, status.Warning)
	assert.Equal(t, 0, status.Remaining)
	assert.Equal(t, 20, status.Used)
	assert.Equal(t, 20, status.Limit)
}
