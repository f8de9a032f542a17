package formatter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpinner_DrawsAndClearsLine(t *testing.T) {
	var buf bytes.Buffer
	stop := StartSpinner(&buf, "thinking")
	time.Sleep(3 * spinnerInterval)
	stop()

	out := buf.String()
	assert.Contains(t, out, "thinking")
	assert.Contains(t, out, "\r\033[K")
}

func TestSpinner_StopTwiceIsSafe(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "working")
	s.Start()
	s.Stop()
	s.Stop()

	assert.Contains(t, buf.String(), "\r\033[K")
}
