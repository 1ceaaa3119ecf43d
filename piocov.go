// Package piocov runs a PlatformIO project's native test environment and,
// when the tests pass, produces an HTML coverage report by driving the
// lcov toolchain over the .gcda artifacts the instrumented test binaries
// leave behind.
package piocov

import (
	"fmt"

	"github.com/dave/piocov/reporter"
	"github.com/dave/piocov/runner"
	"github.com/dave/piocov/shared"
	"github.com/dave/piocov/tester"
)

// Run executes the two phases in order: the test run, then the coverage
// pipeline. The returned error is fatal (failing tests, an unmet coverage
// floor); a broken or missing coverage toolchain is reported by the
// reporter itself and does not escalate.
func Run(setup *shared.Setup, run runner.Runner) error {
	t := tester.New(setup, run)
	if err := t.Test(); err != nil {
		fmt.Fprintln(setup.Env.Stdout(), "\nTests failed - skipping coverage report")
		return err
	}
	r := reporter.New(setup, run)
	if _, err := r.Report(); err != nil {
		return err
	}
	return nil
}
