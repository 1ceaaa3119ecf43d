package tester_test

import (
	"bytes"
	"testing"

	"github.com/dave/patsy/vos"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dave/piocov/runner"
	"github.com/dave/piocov/shared"
	"github.com/dave/piocov/tester"
)

func newSetup(t *testing.T) (*shared.Setup, *bytes.Buffer) {
	t.Helper()
	env := vos.Mock()
	stdout := &bytes.Buffer{}
	env.Setstdout(stdout)
	env.Setstderr(&bytes.Buffer{})
	require.NoError(t, env.Setwd("/proj"))

	setup := &shared.Setup{Env: env}
	require.NoError(t, setup.Parse(nil))
	return setup, stdout
}

func TestTestInvokesPio(t *testing.T) {
	setup, stdout := newSetup(t)
	setup.TestArgs = []string{"--verbose"}

	mock := runner.NewMock()
	mock.Stub("pio", runner.Result{Output: "42 Tests 0 Failures 0 Ignored"}, nil)

	require.NoError(t, tester.New(setup, mock).Test())

	calls := mock.Named("pio")
	require.Len(t, calls, 1)
	assert.Equal(t, "/proj", calls[0].Dir)
	assert.Equal(t, []string{"test", "-e", "native", "--verbose"}, calls[0].Args)

	// banner plus the streamed tool output
	assert.Contains(t, stdout.String(), "Running Native Tests with Coverage")
	assert.Contains(t, stdout.String(), "42 Tests 0 Failures")
}

func TestTestEnvironmentName(t *testing.T) {
	env := vos.Mock()
	env.Setstdout(&bytes.Buffer{})
	env.Setstderr(&bytes.Buffer{})
	require.NoError(t, env.Setwd("/proj"))

	setup := &shared.Setup{Env: env, TestEnv: "coverage"}
	require.NoError(t, setup.Parse(nil))

	mock := runner.NewMock()
	require.NoError(t, tester.New(setup, mock).Test())

	calls := mock.Named("pio")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"test", "-e", "coverage"}, calls[0].Args)
}

func TestTestFailure(t *testing.T) {
	setup, _ := newSetup(t)

	mock := runner.NewMock()
	mock.Stub("pio", runner.Result{ExitCode: 1}, errors.New("pio exited with status 1"))

	err := tester.New(setup, mock).Test()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pio exited with status 1")
}
