// Package input contains identifiers used in getting ll1gen command input
// from CLI or other sources of input.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DirectReader reads lines of input from any generic input stream directly.
// It can be used generically with any io.Reader but does not sanitize the
// input of control and escape sequences.
//
// DirectReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveReader reads lines of input from stdin using a Go
// implementation of the GNU Readline library. This keeps input clear of all
// typing and editing escape sequences and enables the use of command
// history. This should in general probably only be used when directly
// connecting to a TTY for input.
//
// InteractiveReader should not be used directly; instead, create one with
// [NewInteractiveReader].
type InteractiveReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewDirectReader creates a new DirectReader and initializes a buffered
// reader on the provided reader. The returned reader must have Close called
// on it before disposal.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates a new InteractiveReader and initializes
// readline with the given prompt. The returned reader must have Close
// called on it before disposal to properly teardown readline resources.
func NewInteractiveReader(prompt string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveReader{
		rl:     rl,
		prompt: prompt,
	}, nil
}

// Close cleans up resources associated with the DirectReader. For now it
// doesn't do anything as DirectReader does not create resources, but callers
// should treat it as though it must have Close called on it.
func (dr *DirectReader) Close() error {
	return nil
}

// Close cleans up readline resources associated with the InteractiveReader.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

// ReadLine reads the next line from the underlying stream. The returned
// string will only be empty if there is an error reading input, otherwise
// this function blocks until a line containing non-space characters is
// read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (dr *DirectReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && dr.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// ReadLine reads the next line of input via readline. The returned string
// will only be empty if there is an error, otherwise this function blocks
// until a line consisting of more than empty or whitespace-only input is
// read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (ir *InteractiveReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = ir.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && ir.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// AllowBlank sets whether blank lines are returned as-is rather than
// skipped. By default they are skipped.
func (dr *DirectReader) AllowBlank(allow bool) {
	dr.blanksAllowed = allow
}

// AllowBlank sets whether blank lines are returned as-is rather than
// skipped. By default they are skipped.
func (ir *InteractiveReader) AllowBlank(allow bool) {
	ir.blanksAllowed = allow
}

// SetPrompt updates the prompt to the given text.
func (ir *InteractiveReader) SetPrompt(p string) {
	ir.rl.SetPrompt(p)
}
