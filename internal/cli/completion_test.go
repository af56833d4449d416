package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRootCmd creates a fresh root command for testing.
func newTestRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dbdash",
		Short: "Terminal dashboard for a database metrics backend",
	}
}

func TestCompletionBashGeneration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestRootCmd().GenBashCompletion(&buf))

	output := buf.String()
	assert.Contains(t, output, "# bash completion for dbdash")
	assert.Contains(t, output, "__dbdash_debug")
	assert.Contains(t, output, "complete -o default -F __start_dbdash dbdash")
}

func TestCompletionZshGeneration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestRootCmd().GenZshCompletion(&buf))

	output := buf.String()
	assert.Contains(t, output, "#compdef dbdash")
	assert.Contains(t, output, "_dbdash()")
}

func TestCompletionFishGeneration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestRootCmd().GenFishCompletion(&buf, true))

	output := buf.String()
	assert.Contains(t, output, "fish completion for dbdash")
	assert.Contains(t, output, "complete -c dbdash")
}

func TestCompletionPowershellGeneration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestRootCmd().GenPowerShellCompletion(&buf))

	output := buf.String()
	assert.Contains(t, strings.ToLower(output), "powershell completion")
	assert.Contains(t, output, "Register-ArgumentCompleter")
}

func TestCompletionIncludesBuiltinCommands(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, rootCmd.GenBashCompletion(&buf))

	output := buf.String()
	assert.Contains(t, output, "__completeNoDesc", "should use dynamic completion")
	assert.Contains(t, output, "__start_dbdash")
	assert.Contains(t, output, "_dbdash_root_command")

	// Commands with local flags get their own functions.
	assert.Contains(t, output, "_dbdash_query()")
	assert.Contains(t, output, "_dbdash_gauges()")
	assert.Contains(t, output, "_dbdash_completion()")
}

func TestCompletionCommandValidArgs(t *testing.T) {
	assert.ElementsMatch(t, []string{"bash", "zsh", "fish", "powershell"}, completionCmd.ValidArgs)
}

func TestCompleteDatabase(t *testing.T) {
	setupBackend(t)

	names, directive := completeDatabase(tablesCmd, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	assert.Equal(t, []string{"monitor", "inventory"}, names, "missing databases aren't offered")

	names, directive = completeDatabase(queryCmd, []string{"monitor"}, "")
	assert.Nil(t, names, "only the first argument is a database")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}
