package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDemoConvergesAcrossSessions(t *testing.T) {
	var out, errs bytes.Buffer
	exited := -1
	impl([]string{"demo", "--peer", "alice=3,-1", "--peer", "bob=10"}, &out, &errs, func(code int) { exited = code })

	assert.Equal(t, -1, exited, "stderr: %s", errs.String())
	assert.Contains(t, out.String(), "alice: trunk=")
	assert.Contains(t, out.String(), "bob: trunk=")
	assert.NotContains(t, out.String(), "diverged")
}

func TestRebasePreviewPrintsTotal(t *testing.T) {
	var out, errs bytes.Buffer
	exited := -1
	impl([]string{"rebase-preview", "5", "2"}, &out, &errs, func(code int) { exited = code })

	assert.Equal(t, -1, exited, "stderr: %s", errs.String())
	assert.Contains(t, out.String(), "rebased local delta now totals")
}

func TestMissingArgsExitsNonZero(t *testing.T) {
	var out, errs bytes.Buffer
	var exited int
	impl([]string{"rebase-preview"}, &out, &errs, func(code int) { exited = code })

	assert.Equal(t, 1, exited)
}
