// Package logger collects tool output, optionally echoing it as it
// arrives.
package logger

import (
	"bytes"
	"io"
)

// Log returns a buffer plus the stdout and stderr writers to hand to a
// tool invocation. Output always lands in the buffer; with verbose it is
// also echoed to the two provided writers.
func Log(verbose bool, stdout io.Writer, stderr io.Writer) (log *bytes.Buffer, outW io.Writer, errW io.Writer) {
	log = &bytes.Buffer{}
	if verbose {
		return log, io.MultiWriter(log, stdout), io.MultiWriter(log, stderr)
	}
	return log, log, log
}
