package runner

import (
	"io"
	"os/exec"

	"github.com/pkg/errors"
)

// Mock is a scripted Runner for tests. Stub results are matched by binary
// name, optionally narrowed to invocations containing a given argument.
// Unstubbed invocations succeed with empty output. Every invocation is
// recorded in Calls.
type Mock struct {
	stubs []stub
	Calls []Command
}

type stub struct {
	name string
	arg  string
	res  Result
	err  error
}

// NewMock returns an empty Mock.
func NewMock() *Mock {
	return &Mock{}
}

// Stub registers a result for every invocation of name.
func (m *Mock) Stub(name string, res Result, err error) {
	m.stubs = append(m.stubs, stub{name: name, res: res, err: err})
}

// StubArg registers a result for invocations of name whose args include
// arg. Earlier stubs win, so narrow stubs should be registered first.
func (m *Mock) StubArg(name, arg string, res Result, err error) {
	m.stubs = append(m.stubs, stub{name: name, arg: arg, res: res, err: err})
}

// StubNotFound makes invocations of name fail as if the binary were
// missing from the PATH.
func (m *Mock) StubNotFound(name string) {
	err := errors.Wrapf(&exec.Error{Name: name, Err: exec.ErrNotFound}, "Error starting %s", name)
	m.stubs = append(m.stubs, stub{name: name, err: err})
}

// Run records the invocation and replays the first matching stub.
func (m *Mock) Run(cmd Command) (Result, error) {
	m.Calls = append(m.Calls, cmd)
	for _, s := range m.stubs {
		if s.name != cmd.Name {
			continue
		}
		if s.arg != "" && !contains(cmd.Args, s.arg) {
			continue
		}
		if cmd.Stdout != nil {
			// streaming invocation: output goes to the writer, as in the
			// real runner
			io.WriteString(cmd.Stdout, s.res.Output)
			return Result{ExitCode: s.res.ExitCode}, s.err
		}
		return s.res, s.err
	}
	return Result{}, nil
}

// Named returns the recorded invocations of name, in order.
func (m *Mock) Named(name string) []Command {
	var out []Command
	for _, c := range m.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func contains(args []string, arg string) bool {
	for _, a := range args {
		if a == arg {
			return true
		}
	}
	return false
}
