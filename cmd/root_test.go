package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCommand(t *testing.T) {
	h := newHarness(t, nil)

	res := h.run("version")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "test\n", res.stdout)

	res = h.run("--version")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "planner version test\n", res.stdout)
}

func TestUnknownCommandFails(t *testing.T) {
	h := newHarness(t, nil)

	res := h.run("bogus")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, `unknown command "bogus"`)
}

func TestInvalidLogLevel(t *testing.T) {
	h := newHarness(t, nil)

	res := h.run("--log-level", "loud", "task", "list")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, `invalid log level "loud"`)
}
