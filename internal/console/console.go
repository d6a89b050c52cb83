// Package console renders child shell output to the terminal, one colour per
// source: hardhat yellow, deployer green, ALCB cyan, warnings red.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/onsi/ginkgo/v2/formatter"

	"devchain/internal/domain"
)

var _ domain.Console = (*Console)(nil)

type Console struct {
	mu  sync.Mutex
	out io.Writer
	f   formatter.Formatter
}

// New writes coloured output to the platform stdout.
func New(noColor bool) *Console {
	return NewWithWriter(formatter.ColorableStdOut, noColor)
}

func NewWithWriter(w io.Writer, noColor bool) *Console {
	return &Console{out: w, f: formatter.NewWithNoColorBool(noColor)}
}

func colorFor(s domain.Source) string {
	switch s {
	case domain.SourceNode:
		return "{{yellow}}"
	case domain.SourceDeployer:
		return "{{green}}"
	default:
		return "{{cyan}}"
	}
}

// Echo prints a child stdout line in its source colour.
func (c *Console) Echo(line domain.Line) {
	c.printf(colorFor(line.Source)+"%s{{/}}\n", line.Text)
}

func (c *Console) Warn(text string) {
	c.printf("{{red}}%s{{/}}\n", text)
}

func (c *Console) Notice(text string) {
	c.printf("%s\n", text)
}

func (c *Console) printf(format string, args ...any) {
	s := c.f.F(format, args...)
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, s)
}
