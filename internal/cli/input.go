package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Test seams around the terminal. Tests replace them to avoid touching a
// real TTY.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
	getState     = term.GetState
	restoreState = term.Restore
	stdinFd      = func() int { return int(os.Stdin.Fd()) }
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := readLine(reader)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readLine reads one line and strips the line terminator only.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// GetPassword prints prompt to w and reads a password. On a terminal the
// read is done without echo and the terminal state is restored however the
// read ends, including cancellation of ctx. Otherwise one line is read from
// reader.
//
// Cancellation does not interrupt the underlying read: the goroutine blocked
// in it keeps running until the read returns, and its result is dropped.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(ctx context.Context, reader *bufio.Reader, prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}

	fd := stdinFd()
	if !isTerminal(fd) {
		line, err := readLine(reader)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	state, err := getState(fd)
	if err != nil {
		return nil, fmt.Errorf("terminal state: %w", err)
	}
	defer func() { _ = restoreState(fd, state) }()

	type result struct {
		pw  []byte
		err error
	}
	done := make(chan result, 1)
	read := readPassword
	go func() {
		pw, err := read(fd)
		done <- result{pw, err}
	}()

	select {
	case r := <-done:
		fmt.Fprintln(w)
		return r.pw, r.err
	case <-ctx.Done():
		fmt.Fprintln(w)
		return nil, ctx.Err()
	}
}
