package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/litemon/internal/errors"
)

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&buf, map[string]string{"key": "value"}))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	dataMap, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "value", dataMap["key"])
}

func TestWriteJSONSuccessIsIndented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&buf, map[string]int{"n": 1}))
	assert.Contains(t, buf.String(), "\n  \"success\": true")
}

func TestWriteJSONFromError(t *testing.T) {
	var buf bytes.Buffer
	err := errors.New(errors.ErrConfig, "Interval 10ms is too short", "Use at least 100ms")
	require.NoError(t, WriteJSONFromError(&buf, err))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeConfigInvalid, env.Error.Code)
	assert.Equal(t, "Interval 10ms is too short", env.Error.Message)
	assert.Equal(t, "Use at least 100ms", env.Error.Suggestion)
}

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantMsg  string
	}{
		{
			name:     "config error",
			err:      errors.New(errors.ErrConfig, "bad config", ""),
			wantCode: ErrCodeConfigInvalid,
			wantMsg:  "bad config",
		},
		{
			name:     "collect error",
			err:      errors.WrapWithCode(fmt.Errorf("cancelled"), errors.ErrCollect, "Snapshot interrupted", ""),
			wantCode: ErrCodeCollect,
			wantMsg:  "Snapshot interrupted",
		},
		{
			name:     "gpu error",
			err:      errors.New(errors.ErrGPU, "nvidia-smi failed", ""),
			wantCode: ErrCodeCollect,
			wantMsg:  "nvidia-smi failed",
		},
		{
			name:     "terminal error",
			err:      errors.New(errors.ErrTerminal, "not a tty", ""),
			wantCode: ErrCodeUnknown,
			wantMsg:  "not a tty",
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("boom"),
			wantCode: ErrCodeUnknown,
			wantMsg:  "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorToJSON(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMsg, got.Message)
		})
	}

	assert.Nil(t, ErrorToJSON(nil))
}
