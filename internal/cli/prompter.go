package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// prompter reads REPL lines and hidden values.
type prompter interface {
	Prompt(prompt string) (string, error)
	PasswordPrompt(prompt string) (string, error)
	Close() error
}

// linerPrompter gives the REPL line editing and in-memory history. History
// is never written to disk.
type linerPrompter struct {
	line *liner.State
}

func newLinerPrompter() *linerPrompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &linerPrompter{line: line}
}

func (p *linerPrompter) Prompt(prompt string) (string, error) {
	input, err := p.line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		p.line.AppendHistory(input)
	}
	return input, nil
}

func (p *linerPrompter) PasswordPrompt(prompt string) (string, error) {
	v, err := p.line.PasswordPrompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	return v, err
}

func (p *linerPrompter) Close() error {
	return p.line.Close()
}

// readerPrompter reads plain lines, for piped input and tests.
type readerPrompter struct {
	r *bufio.Reader
	w io.Writer
}

func (p *readerPrompter) Prompt(prompt string) (string, error) {
	fmt.Fprint(p.w, prompt)
	return readLine(p.r)
}

func (p *readerPrompter) PasswordPrompt(prompt string) (string, error) {
	return p.Prompt(prompt)
}

func (p *readerPrompter) Close() error { return nil }
