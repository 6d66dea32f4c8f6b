package main

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand executes a cobra command and captures its output.
func executeCommand(root *cobra.Command, args ...string) (stdout string, stderr string, err error) {
	stdoutBuf := new(bytes.Buffer)
	stderrBuf := new(bytes.Buffer)
	root.SetOut(stdoutBuf)
	root.SetErr(stderrBuf)
	root.SetArgs(args)

	err = root.Execute()

	return stdoutBuf.String(), stderrBuf.String(), err
}

func TestRootCmdHelp(t *testing.T) {
	stdout, stderr, err := executeCommand(rootCmd, "--help")

	require.NoError(t, err, "Executing --help should not produce an error")
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "resxgen -i <projectDir>")
	assert.Contains(t, stdout, "--input")
	assert.Contains(t, stdout, "--namespace")
	assert.Contains(t, stdout, "--converter-cmd")
	assert.Contains(t, stdout, "--dry-run")
	assert.Contains(t, stdout, "--version")
}

func TestRootCmdHelpAllFlagsPresent(t *testing.T) {
	stdout, stderr, err := executeCommand(rootCmd, "--help")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	checkFlag := func(f *pflag.Flag) {
		if f.Name == "help" {
			return
		}
		assert.Contains(t, stdout, "--"+f.Name, "Help output should contain flag --%s", f.Name)
		if f.Shorthand != "" && f.ShorthandDeprecated == "" {
			assert.Contains(t, stdout, "-"+f.Shorthand+",", "Help output should contain shorthand -%s for flag --%s", f.Shorthand, f.Name)
		}
	}
	rootCmd.Flags().VisitAll(checkFlag)
	rootCmd.PersistentFlags().VisitAll(checkFlag)
}

func TestRootCmdVersion(t *testing.T) {
	testCmd := &cobra.Command{Use: "resxgen"}
	testCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", "test-1.2.3", "testcommit123", "2026-01-01T10:00:00Z")
	testCmd.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")

	stdout, stderr, err := executeCommand(testCmd, "--version")

	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, "resxgen version test-1.2.3 (commit: testcommit123, built: 2026-01-01T10:00:00Z)\n", stdout)
}
