// Package runner invokes external tools and reports their exit status and
// output. The Runner interface is the seam tests fake so neither phase
// needs real binaries.
package runner

import (
	"bytes"
	"io"
	"os/exec"
	"strings"

	"github.com/dave/patsy/vos"
	"github.com/pkg/errors"
)

// Command describes a single external tool invocation. When Stdout or
// Stderr is set the child streams into them; otherwise combined output is
// collected into Result.Output.
type Command struct {
	Dir    string
	Name   string
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the invocation the way it would look on a shell prompt.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result is the outcome of a completed invocation.
type Result struct {
	ExitCode int
	Output   string
}

// Runner runs external commands.
type Runner interface {
	Run(cmd Command) (Result, error)
}

// New returns a Runner backed by os/exec. Child processes inherit their
// environment from env.
func New(env vos.Env) Runner {
	return &execRunner{env: env}
}

type execRunner struct {
	env vos.Env
}

func (r *execRunner) Run(cmd Command) (Result, error) {
	exe := exec.Command(cmd.Name, cmd.Args...)
	exe.Dir = cmd.Dir
	exe.Env = r.env.Environ()

	var buf bytes.Buffer
	if cmd.Stdout != nil || cmd.Stderr != nil {
		exe.Stdout = cmd.Stdout
		exe.Stderr = cmd.Stderr
	} else {
		exe.Stdout = &buf
		exe.Stderr = &buf
	}

	err := exe.Run()
	res := Result{Output: buf.String()}
	if err == nil {
		return res, nil
	}
	if ee, ok := err.(*exec.ExitError); ok {
		res.ExitCode = ee.ExitCode()
		return res, errors.Wrapf(err, "%s exited with status %d", cmd.Name, res.ExitCode)
	}
	return res, errors.Wrapf(err, "Error starting %s", cmd.Name)
}

// IsNotFound reports whether err came from an invocation whose binary could
// not be found.
func IsNotFound(err error) bool {
	ee, ok := errors.Cause(err).(*exec.Error)
	return ok && ee.Err == exec.ErrNotFound
}
