package multidev

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm_Yes(t *testing.T) {
	var out bytes.Buffer
	ok, err := Confirm(context.Background(), "Continue? [y/N] ", strings.NewReader("y\n"), &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Continue? [y/N] ", out.String())
}

func TestConfirm_YesWord(t *testing.T) {
	var out bytes.Buffer
	ok, err := Confirm(context.Background(), "? ", strings.NewReader("yes\n"), &out)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirm_CaseInsensitive(t *testing.T) {
	var out bytes.Buffer
	ok, err := Confirm(context.Background(), "? ", strings.NewReader("YES\n"), &out)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirm_No(t *testing.T) {
	var out bytes.Buffer
	ok, err := Confirm(context.Background(), "? ", strings.NewReader("n\n"), &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirm_EmptyLineDeclines(t *testing.T) {
	var out bytes.Buffer
	ok, err := Confirm(context.Background(), "? ", strings.NewReader("\n"), &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirm_EOFDeclines(t *testing.T) {
	var out bytes.Buffer
	ok, err := Confirm(context.Background(), "? ", strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirm_SurroundingWhitespace(t *testing.T) {
	var out bytes.Buffer
	ok, err := Confirm(context.Background(), "? ", strings.NewReader("  y  \n"), &out)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirm_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A pipe with no writer blocks the reading goroutine, so only the
	// cancelled context can unblock the call.
	pr, _ := io.Pipe()
	var out bytes.Buffer
	ok, err := Confirm(ctx, "? ", pr, &out)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}
