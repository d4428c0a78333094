package contextmgr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddAndListMessages(t *testing.T) {
	cm := NewContextManager()
	cm.AddMessage("system", "you are a coder")
	cm.AddMessage("user", "write a file")

	msgs := cm.Messages()
	assert.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, 2, cm.Len())

	// Mutating the copy must not affect the manager.
	msgs[0].Content = "changed"
	assert.Equal(t, "you are a coder", cm.Messages()[0].Content)
}

func TestCountTokensGrowsWithContent(t *testing.T) {
	cm := NewContextManager()
	assert.Equal(t, 0, cm.CountTokens())

	cm.AddMessage("user", "hello world, this is a reasonably sized message")
	small := cm.CountTokens()
	assert.Positive(t, small)

	cm.AddMessage("assistant", strings.Repeat("more text ", 100))
	assert.Greater(t, cm.CountTokens(), small)
}

func TestCompactPreservesSystemAndRecentMessages(t *testing.T) {
	cm := NewContextManager()
	cm.AddMessage("system", "system instruction")
	for i := 0; i < 10; i++ {
		cm.AddMessage("user", strings.Repeat("filler text ", 50))
	}

	before := cm.Len()
	cm.CompactIfNeeded(10)
	assert.Less(t, cm.Len(), before)
	assert.Equal(t, "system instruction", cm.Messages()[0].Content)
}

func TestCompactNoopUnderThreshold(t *testing.T) {
	cm := NewContextManager()
	cm.AddMessage("system", "s")
	cm.AddMessage("user", "short")
	cm.CompactIfNeeded(1 << 20)
	assert.Equal(t, 2, cm.Len())
}
