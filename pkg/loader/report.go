package loader

import (
	"fmt"
	"io"

	"github.com/labstack/gommon/color"
)

// Reporter receives the human readable status line for each stage.
type Reporter interface {
	Success(msg string)
	Failure(msg string)
}

type ConsoleReporter struct {
	out   io.Writer
	color *color.Color
}

func NewConsoleReporter(out io.Writer, noColor bool) *ConsoleReporter {
	c := color.New()
	if noColor {
		c.Disable()
	} else {
		c.Enable()
	}
	return &ConsoleReporter{out: out, color: c}
}

func (r *ConsoleReporter) Success(msg string) {
	fmt.Fprintf(r.out, "%s %s\n", r.color.Green("✅"), msg)
}

func (r *ConsoleReporter) Failure(msg string) {
	fmt.Fprintf(r.out, "%s %s\n", r.color.Red("❌"), r.color.Red(msg))
}

type nopReporter struct{}

func (nopReporter) Success(string) {}
func (nopReporter) Failure(string) {}
