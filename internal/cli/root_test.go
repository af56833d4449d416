package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/dbdash/internal/errors"
)

func TestIsUnknownCommandError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unknown command error", stderrors.New(`unknown command "foo" for "dbdash"`), true},
		{"unknown flag error", stderrors.New(`unknown flag: --foo`), true},
		{"unknown shorthand", stderrors.New(`unknown shorthand flag: 'z' in -z`), true},
		{"other error", stderrors.New("connection failed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnknownCommandError(tt.err))
		})
	}
}

func TestExtractUnknownCommand(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"standard cobra format", stderrors.New(`unknown command "foo" for "dbdash"`), "foo"},
		{"command with hyphen", stderrors.New(`unknown command "table-info" for "dbdash"`), "table-info"},
		{"no quotes returns empty", stderrors.New("unknown command foo"), ""},
		{"single quote returns empty", stderrors.New(`unknown command "foo`), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractUnknownCommand(tt.err))
		})
	}
}

func TestReportError(t *testing.T) {
	t.Run("structured error goes to stderr", func(t *testing.T) {
		setMachineMode(t, false)
		var stdout, stderr bytes.Buffer

		err := errors.New(errors.ErrFetch, "Request to /databases failed", "Is the backend running?")
		code := reportError(&stdout, &stderr, err)

		assert.Equal(t, 1, code)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "✗ Request to /databases failed")
		assert.Contains(t, stderr.String(), "Is the backend running?")
	})

	t.Run("plain error gets a trailing newline", func(t *testing.T) {
		setMachineMode(t, false)
		var stdout, stderr bytes.Buffer

		code := reportError(&stdout, &stderr, fmt.Errorf("accepts at most 1 arg(s), received 2"))
		assert.Equal(t, 1, code)
		assert.Equal(t, "accepts at most 1 arg(s), received 2\n", stderr.String())
	})

	t.Run("unknown command gets a hint", func(t *testing.T) {
		setMachineMode(t, false)
		var stdout, stderr bytes.Buffer

		reportError(&stdout, &stderr, stderrors.New(`unknown command "tabels" for "dbdash"`))
		assert.Contains(t, stderr.String(), "'tabels' isn't a dbdash command")
		assert.Contains(t, stderr.String(), "dbdash --help")
	})

	t.Run("json mode writes an envelope to stdout", func(t *testing.T) {
		setMachineMode(t, true)
		var stdout, stderr bytes.Buffer

		err := errors.New(errors.ErrState, "Database name required", "")
		code := reportError(&stdout, &stderr, err)

		assert.Equal(t, 1, code)
		assert.Empty(t, stderr.String())
		var env JSONEnvelope
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &env))
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrCodeState, env.Error.Code)
	})

	t.Run("exit error is silent", func(t *testing.T) {
		setMachineMode(t, false)
		var stdout, stderr bytes.Buffer

		code := reportError(&stdout, &stderr, fmt.Errorf("wrapped: %w", errors.NewExitError(3)))
		assert.Equal(t, 3, code)
		assert.Empty(t, stdout.String())
		assert.Empty(t, stderr.String())
	})
}

func TestInterrupted(t *testing.T) {
	live := context.Background()
	fetchErr := errors.New(errors.ErrFetch, "Request to /databases failed", "")
	assert.Nil(t, interrupted(live, nil))
	assert.Equal(t, fetchErr, interrupted(live, fetchErr))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, err := range []error{nil, fetchErr} {
		var stdout, stderr bytes.Buffer
		code := reportError(&stdout, &stderr, interrupted(ctx, err))
		assert.Equal(t, exitInterrupted, code)
		assert.Empty(t, stderr.String(), "nothing printed after an interrupt")
	}
}

func TestRootCommandFlags(t *testing.T) {
	pf := rootCmd.PersistentFlags()
	for _, name := range []string{"config", "api", "timeout", "verbose", "no-color", "json"} {
		assert.NotNil(t, pf.Lookup(name), "missing --%s", name)
	}
	db := rootCmd.Flags().Lookup("database")
	require.NotNil(t, db)
	assert.Equal(t, "d", db.Shorthand)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := []string{"databases", "tables", "query", "info", "stats", "gauges", "trend", "chart", "config", "version", "completion"}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, have[name], "%s not registered", name)
	}
}
