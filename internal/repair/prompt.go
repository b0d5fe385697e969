package repair

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter collects operator input.
type Prompter interface {
	// Field asks for a new value of field. An empty answer keeps current.
	Field(field, current string) (string, error)
	Confirm(question string) (bool, error)
}

// Console is a line-oriented Prompter.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole reads answers from in and writes prompts to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) Field(field, current string) (string, error) {
	fmt.Fprintf(c.out, "  new %s [%s]: ", field, current)
	return c.line()
}

// Ask prints label and returns the trimmed answer.
func (c *Console) Ask(label string) (string, error) {
	fmt.Fprintf(c.out, "%s: ", label)
	return c.line()
}

func (c *Console) Confirm(question string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N]: ", question)
	v, err := c.line()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// line returns one trimmed line. A final line without a newline is accepted.
func (c *Console) line() (string, error) {
	s, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}
