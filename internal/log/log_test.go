package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinesCarryBinaryPrefix(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	Info("dispatcher started")

	assert.Contains(t, buf.String(), "dtk")
	assert.Contains(t, buf.String(), "dispatcher started")
}
