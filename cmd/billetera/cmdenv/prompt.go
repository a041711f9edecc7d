package cmdenv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput is returned when input ends before a value was read.
var ErrNoInput = errors.New("no input received on stdin")

// Prompter reads answers from the command's input. On a terminal, secrets
// are read without echo; otherwise every answer is one line of input, so
// values can be piped in.
type Prompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

// NewPrompter returns a Prompter reading in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out, reader: bufio.NewReader(in)}
}

// Interactive reports whether input is a terminal.
func (p *Prompter) Interactive() bool {
	f, ok := p.in.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0 && term.IsTerminal(int(f.Fd()))
}

// Line prompts with label and returns the trimmed answer.
func (p *Prompter) Line(label string) (string, error) {
	if p.Interactive() {
		fmt.Fprint(p.out, label)
	}

	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Secret prompts with label and reads an answer without echo on a terminal.
func (p *Prompter) Secret(label string) (string, error) {
	if !p.Interactive() {
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(p.out, label)
	f := p.in.(*os.File)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.out) // newline after hidden input
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(secret), nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err == nil {
		return line, nil
	}
	if errors.Is(err, io.EOF) {
		if line == "" {
			return "", ErrNoInput
		}
		return line, nil
	}
	return "", fmt.Errorf("reading input: %w", err)
}
