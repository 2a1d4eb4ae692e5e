package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAskCommand(t *testing.T) {
	out, err := execute(t, "", "ask", "--topic", "PM", "KISAN")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[pm_kisan]\n"), out)
	assert.Contains(t, out, "₹6000")
}

func TestAskNeedsQuestion(t *testing.T) {
	_, err := execute(t, "", "ask")
	require.Error(t, err)
}

func TestTopicsCommand(t *testing.T) {
	out, err := execute(t, "", "topics")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "platform_overview", lines[0])
	assert.NotContains(t, lines, "fallback")
}

func TestChatCommand(t *testing.T) {
	out, err := execute(t, "kcc\n\n   \nexit\nmsp\n", "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "> ")
	assert.Equal(t, 4, strings.Count(out, "> "))
}

func TestCustomRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
welcome: hello
fallback: no idea
rules:
  - topic: msp
    fragments: [support price]
    response: custom msp answer
`), 0o600))

	out, err := execute(t, "", "--rules", path, "ask", "minimum support price")
	require.NoError(t, err)
	assert.Equal(t, "custom msp answer\n", out)

	out, err = execute(t, "", "--rules", path, "ask", "weather")
	require.NoError(t, err)
	assert.Equal(t, "no idea\n", out)

	_, err = execute(t, "", "--rules", filepath.Join(t.TempDir(), "missing.yaml"), "topics")
	require.Error(t, err)
}
