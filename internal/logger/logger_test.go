package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

// TestDebug_VerboseOff tests that debug output is suppressed by default
func TestDebug_VerboseOff(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("hidden %d", 1)
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Empty(t, buf.String())
}

// TestDebug_VerboseOn tests level prefixes in verbose mode
func TestDebug_VerboseOn(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("chunked %d pages", 3)
	Info("indexed")
	Warn("slow backend")
	Section("Ingestion")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] chunked 3 pages")
	assert.Contains(t, out, "[INFO] indexed")
	assert.Contains(t, out, "[WARN] slow backend")
	assert.Contains(t, out, "=== Ingestion ===")
}

// TestError_AlwaysPrinted tests that errors bypass the verbose gate
func TestError_AlwaysPrinted(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Error("store: %v", "disk full")

	assert.Contains(t, buf.String(), "[ERROR] store: disk full")
}

// TestIsVerbose tests the verbose flag round trip
func TestIsVerbose(t *testing.T) {
	defer reset()

	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}
