// Package tester runs the PlatformIO test environment.
package tester

import (
	"github.com/pkg/errors"

	"github.com/dave/piocov/runner"
	"github.com/dave/piocov/shared"
)

// New creates a Tester.
func New(setup *shared.Setup, run runner.Runner) *Tester {
	return &Tester{
		setup: setup,
		run:   run,
	}
}

// Tester runs the test phase.
type Tester struct {
	setup *shared.Setup
	run   runner.Runner
}

// Test invokes pio test for the configured environment in the project
// root, streaming output straight through to the console. It succeeds
// exactly when the tool exits zero. No retries, no timeout.
func (t *Tester) Test() error {
	shared.Banner(t.setup.Env.Stdout(), "Running Native Tests with Coverage")

	args := append([]string{"test", "-e", t.setup.TestEnv}, t.setup.TestArgs...)
	_, err := t.run.Run(runner.Command{
		Dir:    t.setup.ProjectDir,
		Name:   t.setup.Pio,
		Args:   args,
		Stdout: t.setup.Env.Stdout(),
		Stderr: t.setup.Env.Stderr(),
	})
	if err != nil {
		return errors.Wrap(err, "Error running tests")
	}
	return nil
}
