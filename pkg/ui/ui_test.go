package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinterPlainWhenNotTerminal(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut)

	p.Println("selected=True", "Main")
	p.Printf("%d items\n", 2)
	p.Muted("nothing here")
	p.Warn("missing FreeBusy data for %s.", "cal-1")
	p.Error("Calendar error: boom")

	assert.Equal(t, "selected=True Main\n2 items\nnothing here\n", out.String())
	assert.Equal(t, "Warning: missing FreeBusy data for cal-1.\nCalendar error: boom\n", errOut.String())
}
