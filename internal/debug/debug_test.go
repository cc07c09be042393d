package debug

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// saveAndRestoreState saves the debug package state and returns a cleanup function
func saveAndRestoreState() func() {
	originalDebug := EnableDebug
	originalMode := MCPMode
	originalOutput := debugOutput
	originalFile := debugFile
	return func() {
		EnableDebug = originalDebug
		MCPMode = originalMode
		debugOutput = originalOutput
		debugFile = originalFile
	}
}

func TestSetMCPMode(t *testing.T) {
	defer saveAndRestoreState()()

	SetMCPMode(true)
	assert.True(t, MCPMode)

	SetMCPMode(false)
	assert.False(t, MCPMode)
}

func TestIsDebugEnabled(t *testing.T) {
	defer saveAndRestoreState()()
	t.Setenv("QDI_DEBUG", "")

	EnableDebug = "false"
	MCPMode = false
	assert.False(t, IsDebugEnabled())

	EnableDebug = "true"
	assert.True(t, IsDebugEnabled())

	// MCP mode suppresses everything regardless of the flag
	MCPMode = true
	assert.False(t, IsDebugEnabled())

	MCPMode = false
	EnableDebug = "invalid"
	assert.False(t, IsDebugEnabled())
}

func TestIsDebugEnabled_EnvOverride(t *testing.T) {
	defer saveAndRestoreState()()

	EnableDebug = "false"
	MCPMode = false
	t.Setenv("QDI_DEBUG", "1")
	assert.True(t, IsDebugEnabled())
}

func TestLog(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	EnableDebug = "true"
	MCPMode = false
	SetDebugOutput(&buf)

	Log("CACHE", "evicted %s\n", "a.md")
	assert.Contains(t, buf.String(), "[DEBUG:CACHE]")
	assert.Contains(t, buf.String(), "evicted a.md")

	buf.Reset()
	LogSearch("query %q\n", "hello")
	assert.Contains(t, buf.String(), "[DEBUG:SEARCH]")
}

func TestLog_SilentWhenDisabled(t *testing.T) {
	defer saveAndRestoreState()()
	t.Setenv("QDI_DEBUG", "")

	var buf bytes.Buffer
	EnableDebug = "false"
	MCPMode = false
	SetDebugOutput(&buf)

	Printf("should not appear\n")
	LogIndexing("should not appear\n")
	assert.Empty(t, buf.String())
}

func TestWarnf_MCPModeRoutesToDebugWriter(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	MCPMode = true
	SetDebugOutput(&buf)

	Warnf("root %s missing\n", "docs")
	assert.Contains(t, buf.String(), "[WARN]")
	assert.Contains(t, buf.String(), "root docs missing")
}

func TestInitDebugLogFile(t *testing.T) {
	defer saveAndRestoreState()()

	path, err := InitDebugLogFile()
	assert.NoError(t, err)
	assert.True(t, strings.Contains(path, "qdi-debug-logs"))

	assert.NoError(t, CloseDebugLog())
	_ = os.Remove(path)
}
