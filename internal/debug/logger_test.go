package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitWriter(t *testing.T) {
	t.Cleanup(func() { Init(false) })

	var buf bytes.Buffer
	InitWriter(false, &buf)
	assert.False(t, Enabled())
	Debug("hidden")
	Warn("shown", "kind", "sql")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "kind=sql")

	buf.Reset()
	InitWriter(true, &buf)
	assert.True(t, Enabled())
	With("provider", "sqlite").Debug("statement")
	assert.Contains(t, buf.String(), "provider=sqlite")
	assert.Contains(t, buf.String(), "msg=statement")
}

func TestLoggerReadyAtInit(t *testing.T) {
	assert.NotNil(t, Logger())
}
