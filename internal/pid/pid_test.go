package pid_test

import (
	"testing"

	"codeberg.org/fervag/x708ctl/internal/errors"
	"codeberg.org/fervag/x708ctl/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRemove(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	require.NoError(t, pid.Write())
	defer pid.Remove()

	// The test process is alive, so a second supervisor must refuse
	// to start.
	err := pid.Write()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))

	require.NoError(t, pid.Remove())
	require.NoError(t, pid.Write())
	require.NoError(t, pid.Remove())
}
