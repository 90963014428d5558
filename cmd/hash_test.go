package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundlekit.dev/pkg/bundlekit/pkg/shortid"
)

func executeHashCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	cmd.AddCommand(newHashCmd())

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"hash"}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func TestHashCmd_PrintsHashAndBase62(t *testing.T) {
	out, err := executeHashCmd(t, "components-MkButton-root")
	require.NoError(t, err)

	assert.Contains(t, out, "Input")
	assert.Contains(t, out, "components-MkButton-root")
	assert.Contains(t, out, "2439302249377485")
	assert.Contains(t, out, "baFhBLa2N")
}

func TestHashCmd_Seed(t *testing.T) {
	out, err := executeHashCmd(t, "--seed", "7", "abc")
	require.NoError(t, err)

	n := shortid.HashWithSeed("abc", 7)
	assert.Contains(t, out, shortid.Base62(n))
}

func TestHashCmd_Decode(t *testing.T) {
	out, err := executeHashCmd(t, "--decode", "fi7lAAq3x")
	require.NoError(t, err)

	assert.Contains(t, out, "Value")
	assert.Contains(t, out, "3338908027751811")
}

func TestHashCmd_DecodeRejectsInvalidInput(t *testing.T) {
	_, err := executeHashCmd(t, "--decode", "not-base62!")
	require.Error(t, err)
	assert.ErrorIs(t, err, shortid.ErrInvalidBase62)
}

func TestHashCmd_RequiresInput(t *testing.T) {
	_, err := executeHashCmd(t)
	require.Error(t, err)
}
