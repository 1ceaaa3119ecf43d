// Package reporter drives the lcov toolchain over the artifacts left by an
// instrumented test run: capture, extract, genhtml, summary. Coverage data
// formats are owned entirely by the external tools; this package only
// sequences them and echoes a few summary lines.
package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/dave/piocov/reporter/logger"
	"github.com/dave/piocov/runner"
	"github.com/dave/piocov/shared"
)

// Status is the terminal state of a coverage run.
type Status int

const (
	// StatusGenerated means the full pipeline ran and the HTML report
	// exists.
	StatusGenerated Status = iota
	// StatusNoData means no coverage artifacts were found and no tool ran.
	StatusNoData
	// StatusToolFailed means an lcov or genhtml invocation failed. A hint
	// was printed; the report may be incomplete.
	StatusToolFailed
)

// ArtifactSuffix is the filename suffix of the coverage data files the
// instrumented test binaries emit.
const ArtifactSuffix = ".gcda"

// New creates a Reporter.
func New(setup *shared.Setup, run runner.Runner) *Reporter {
	return &Reporter{
		setup: setup,
		run:   run,
	}
}

// Reporter runs the coverage phase.
type Reporter struct {
	setup *shared.Setup
	run   runner.Runner
}

// Report runs scan, capture, filter, render and summarize. Toolchain
// failures are reported with a remediation hint and come back as
// StatusToolFailed with a nil error, so the process still exits zero. The
// error return is reserved for filesystem problems and an unmet minimum
// coverage floor.
func (r *Reporter) Report() (Status, error) {
	out := r.setup.Env.Stdout()
	shared.Banner(out, "Generating Code Coverage Report")

	count, err := r.scan()
	if err != nil {
		return StatusNoData, err
	}
	if count == 0 {
		fmt.Fprintf(out, "No coverage data found (%s files)\n", ArtifactSuffix)
		return StatusNoData, nil
	}
	fmt.Fprintf(out, "Found %d coverage data files\n\n", count)

	if err := os.MkdirAll(r.setup.CoverageDir, 0777); err != nil {
		return StatusToolFailed, errors.Wrapf(err, "Error creating coverage dir %s", r.setup.CoverageDir)
	}

	if err := r.pipeline(); err != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, color.RedString("Error generating coverage: %v", err))
		fmt.Fprintln(out, "Make sure lcov is installed: sudo apt install lcov")
		return StatusToolFailed, nil
	}

	summary := r.summarize()
	printSummary(out, summary)
	fmt.Fprintf(out, "\nHTML Report: %s\n", filepath.Join(r.setup.HTMLDir, "index.html"))

	if r.setup.Min > 0 {
		if err := enforce(summary, r.setup.Min); err != nil {
			return StatusGenerated, err
		}
	}
	return StatusGenerated, nil
}

// scan counts coverage artifacts anywhere under the test build dir. A
// missing dir counts as zero.
func (r *Reporter) scan() (int, error) {
	count := 0
	err := filepath.Walk(r.setup.TestDir, func(fpath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), ArtifactSuffix) {
			count++
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "Error scanning %s", r.setup.TestDir)
	}
	return count, nil
}

// pipeline runs the capture, extract and render stages. The first failure
// stops the pipeline.
func (r *Reporter) pipeline() error {
	out := r.setup.Env.Stdout()

	fmt.Fprintln(out, "1. Capturing coverage data...")
	if err := r.tool(r.setup.Lcov,
		"--capture",
		"--directory", r.setup.TestDir,
		"--output-file", r.setup.InfoFile,
		"--quiet",
	); err != nil {
		return err
	}

	fmt.Fprintln(out, "2. Filtering to test files...")
	if err := r.tool(r.setup.Lcov,
		"--extract", r.setup.InfoFile,
		filepath.Join(r.setup.ProjectDir, "test", "*"),
		"--output-file", r.setup.FilteredFile,
		"--quiet",
	); err != nil {
		return err
	}

	fmt.Fprintln(out, "3. Generating HTML report...")
	return r.tool(r.setup.Genhtml,
		r.setup.FilteredFile,
		"--output-directory", r.setup.HTMLDir,
		"--title", r.setup.Title,
		"--quiet",
	)
}

// tool runs one toolchain command. Output is buffered, streamed only in
// verbose mode, and attached to the error on failure.
func (r *Reporter) tool(name string, args ...string) error {
	log, stdout, stderr := logger.Log(r.setup.Verbose, r.setup.Env.Stdout(), r.setup.Env.Stderr())
	_, err := r.run.Run(runner.Command{
		Dir:    r.setup.ProjectDir,
		Name:   name,
		Args:   args,
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		if runner.IsNotFound(err) {
			return errors.Errorf("%s not found", name)
		}
		return errors.Wrapf(err, "%s failed\nOutput:[\n%s]", name, log.String())
	}
	return nil
}

// summarize runs lcov --summary and returns its combined output. The exit
// status is informational only; whatever the tool printed is echoed.
func (r *Reporter) summarize() string {
	res, _ := r.run.Run(runner.Command{
		Dir:  r.setup.ProjectDir,
		Name: r.setup.Lcov,
		Args: []string{"--summary", r.setup.FilteredFile},
	})
	return res.Output
}

// printSummary echoes the lines and functions figures from the summary
// output. Substring match, so a line merely mentioning "lines" in prose
// would also be echoed.
func printSummary(w io.Writer, summary string) {
	rule := strings.Repeat("-", 60)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Coverage Summary:")
	fmt.Fprintln(w, rule)
	for _, line := range strings.Split(summary, "\n") {
		if strings.Contains(line, "lines") || strings.Contains(line, "functions") {
			fmt.Fprintln(w, strings.TrimSpace(line))
		}
	}
}

var linesPercent = regexp.MustCompile(`lines[.\s]*:\s*([0-9.]+)%`)

// enforce fails when the lines coverage reported by the summary is below
// min percent.
func enforce(summary string, min float64) error {
	m := linesPercent.FindStringSubmatch(summary)
	if m == nil {
		return errors.New("no lines coverage found in summary output")
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return errors.Wrapf(err, "Error parsing lines coverage %q", m[1])
	}
	if pct < min {
		return errors.Errorf("lines coverage %.1f%% is below minimum %.1f%%", pct, min)
	}
	return nil
}
