package logger_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dave/piocov/reporter/logger"
)

func TestQuiet(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	log, outW, errW := logger.Log(false, stdout, stderr)
	fmt.Fprint(outW, "a")
	fmt.Fprint(errW, "b")

	assert.Equal(t, "ab", log.String())
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestVerbose(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	log, outW, errW := logger.Log(true, stdout, stderr)
	fmt.Fprint(outW, "a")
	fmt.Fprint(errW, "b")

	assert.Equal(t, "ab", log.String())
	assert.Equal(t, "a", stdout.String())
	assert.Equal(t, "b", stderr.String())
}
