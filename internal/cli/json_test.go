package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/dbdash/internal/api"
	"github.com/rileyhilliard/dbdash/internal/errors"
)

func TestMachineMode_DefaultValue(t *testing.T) {
	oldMode := machineMode
	defer func() { machineMode = oldMode }()

	machineMode = false
	assert.False(t, MachineMode())

	machineMode = true
	assert.True(t, MachineMode())
}

func TestWriteJSONSuccess_BasicData(t *testing.T) {
	var buf bytes.Buffer

	err := WriteJSONSuccess(&buf, map[string]string{"database": "monitor"})
	require.NoError(t, err)

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	dataMap, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "monitor", dataMap["database"])
}

func TestWriteJSONSuccess_NilData(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteJSONSuccess(&buf, nil))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Nil(t, env.Data)
	assert.Nil(t, env.Error)
	assert.NotContains(t, buf.String(), `"data"`)
}

func TestWriteJSONError_AllFields(t *testing.T) {
	var buf bytes.Buffer

	details := map[string]string{"path": "/tables/monitor"}
	err := WriteJSONError(&buf, ErrCodeFetchFailed, "Request failed", "Is the backend running?", details)
	require.NoError(t, err)

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeFetchFailed, env.Error.Code)
	assert.Equal(t, "Request failed", env.Error.Message)
	assert.Equal(t, "Is the backend running?", env.Error.Suggestion)

	detailsMap, ok := env.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "/tables/monitor", detailsMap["path"])
}

func TestWriteJSONFromError_NilError(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteJSONFromError(&buf, nil))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Nil(t, env.Error)
}

func TestWriteJSONFromError_StructuredError(t *testing.T) {
	var buf bytes.Buffer

	dErr := errors.New(errors.ErrConfig, "Config file not found", "Run 'dbdash config init' to create one")
	require.NoError(t, WriteJSONFromError(&buf, dErr))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeConfigNotFound, env.Error.Code)
	assert.Equal(t, "Config file not found", env.Error.Message)
	assert.Equal(t, "Run 'dbdash config init' to create one", env.Error.Suggestion)
}

func TestWriteJSONFromError_WrappedStructuredError(t *testing.T) {
	var buf bytes.Buffer

	inner := errors.New(errors.ErrState, "Select a database first", "")
	require.NoError(t, WriteJSONFromError(&buf, fmt.Errorf("query: %w", inner)))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeState, env.Error.Code)
	assert.Equal(t, "Select a database first", env.Error.Message)
}

func TestErrorToJSON_NilReturnsNil(t *testing.T) {
	assert.Nil(t, ErrorToJSON(nil))
}

func TestErrorToJSON_GenericError(t *testing.T) {
	result := ErrorToJSON(fmt.Errorf("generic error message"))

	require.NotNil(t, result)
	assert.Equal(t, ErrCodeUnknown, result.Code)
	assert.Equal(t, "generic error message", result.Message)
	assert.Empty(t, result.Suggestion)
}

func TestErrorToJSON_AllInternalErrorCodes(t *testing.T) {
	tests := []struct {
		name         string
		internalCode string
		message      string
		wantCode     string
	}{
		{"config not found", errors.ErrConfig, "Config file not found", ErrCodeConfigNotFound},
		{"config couldn't find", errors.ErrConfig, "Couldn't find config file", ErrCodeConfigNotFound},
		{"config invalid", errors.ErrConfig, "api.timeout can't be negative", ErrCodeConfigInvalid},
		{"fetch", errors.ErrFetch, "Request to /databases failed", ErrCodeFetchFailed},
		{"decode", errors.ErrDecode, "Unexpected response from /databases", ErrCodeBadResponse},
		{"state", errors.ErrState, "Select a database first", ErrCodeState},
		{"ui", errors.ErrUI, "Dashboard stopped unexpectedly", ErrCodeUI},
		{"unknown code", "OTHER", "Something else", ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ErrorToJSON(errors.New(tt.internalCode, tt.message, "some suggestion"))

			require.NotNil(t, result)
			assert.Equal(t, tt.wantCode, result.Code)
			assert.Equal(t, tt.message, result.Message)
		})
	}
}

func TestErrorToJSON_Unavailable(t *testing.T) {
	t.Run("bare", func(t *testing.T) {
		result := ErrorToJSON(&api.UnavailableError{Reason: "Table sistema_info_media not found"})
		require.NotNil(t, result)
		assert.Equal(t, ErrCodeUnavailable, result.Code)
		assert.Contains(t, result.Message, "sistema_info_media")
	})

	t.Run("wrapped in a fetch error", func(t *testing.T) {
		err := errors.WrapWithCode(&api.UnavailableError{Reason: "no metrics"},
			errors.ErrFetch, "Metrics aren't available for inventory", "")
		result := ErrorToJSON(err)
		require.NotNil(t, result)
		assert.Equal(t, ErrCodeUnavailable, result.Code)
		assert.Equal(t, "Metrics aren't available for inventory", result.Message)
	})
}

func TestErrorToJSON_StatusDetails(t *testing.T) {
	err := errors.WrapWithCode(&api.StatusError{
		Path:       "/tables/monitor",
		StatusCode: 500,
		Message:    "database is locked",
	}, errors.ErrFetch, "Request to /tables/monitor failed", "")

	result := ErrorToJSON(err)
	require.NotNil(t, result)
	assert.Equal(t, ErrCodeFetchFailed, result.Code)

	details, ok := result.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "/tables/monitor", details["path"])
	assert.Equal(t, 500, details["status"])
	assert.Equal(t, "database is locked", details["backend_error"])
}
