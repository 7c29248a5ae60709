package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// LineReader reads one answer per call from the user. Prompts are printed
// only when input comes from a terminal, so piped goals stay quiet.
type LineReader struct {
	scanner     *bufio.Scanner
	out         io.Writer
	fd          int
	interactive bool
}

// NewLineReader wraps in. out receives prompts.
func NewLineReader(in io.Reader, out io.Writer) *LineReader {
	r := &LineReader{scanner: bufio.NewScanner(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.fd = int(f.Fd())
		r.interactive = true
	}
	return r
}

// Interactive reports whether input is a terminal.
func (r *LineReader) Interactive() bool {
	return r.interactive
}

// ReadLine prints prompt and returns the next trimmed line, or "" on EOF.
func (r *LineReader) ReadLine(prompt string) string {
	if r.interactive {
		fmt.Fprint(r.out, prompt)
	}
	if !r.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(r.scanner.Text())
}

// ReadSecret is ReadLine without echo on a terminal.
func (r *LineReader) ReadSecret(prompt string) string {
	if !r.interactive {
		return r.ReadLine(prompt)
	}
	fmt.Fprint(r.out, prompt)
	b, err := term.ReadPassword(r.fd)
	fmt.Fprintln(r.out)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
