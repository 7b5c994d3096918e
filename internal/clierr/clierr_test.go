package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorUnwrapsThroughWrapping(t *testing.T) {
	base := Newf(TaskNotFound, "task not found: #%d", 42)
	wrapped := fmt.Errorf("running command: %w", base)

	var cliErr *Error
	require.True(t, errors.As(wrapped, &cliErr))
	assert.Equal(t, TaskNotFound, cliErr.Code)
	assert.Equal(t, "task not found: #42", cliErr.Message)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, New(InvalidInput, "bad").ExitCode())
	assert.Equal(t, 1, New(TaskNotFound, "missing").ExitCode())
	assert.Equal(t, 2, New(InternalError, "boom").ExitCode())
}

func TestWithDetails(t *testing.T) {
	err := New(SubtaskNotFound, "subtask not found: #7").
		WithDetails(map[string]any{"id": 7})
	assert.Equal(t, map[string]any{"id": 7}, err.Details)
	assert.Equal(t, "subtask not found: #7", err.Error())
}

func TestSilentError(t *testing.T) {
	err := &SilentError{Code: 1}
	assert.Equal(t, "exit 1", err.Error())

	var silent *SilentError
	require.True(t, errors.As(error(err), &silent))
	assert.Equal(t, 1, silent.Code)
}
