// Package admin holds the shared-secret gate in front of the admin panel.
// The gate only keeps casual users out of the panel; the backend is what
// decides whether a mutation is allowed.
package admin

import (
	"bufio"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var ErrAccessDenied = errors.New("access denied")

type Gate struct {
	secret string
}

func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// Configured reports whether a secret is set at all.
func (g *Gate) Configured() bool {
	return g != nil && g.secret != ""
}

// Check compares attempt against the configured secret in constant time.
// An unset secret denies everything.
func (g *Gate) Check(attempt string) error {
	if !g.Configured() {
		return fmt.Errorf("%w: no admin secret configured", ErrAccessDenied)
	}
	if subtle.ConstantTimeCompare([]byte(attempt), []byte(g.secret)) != 1 {
		return ErrAccessDenied
	}
	return nil
}

// ReadFunc reads one secret from the operator.
type ReadFunc func() (string, error)

// Prompt writes a prompt to out, reads the secret with read and checks it.
func (g *Gate) Prompt(out io.Writer, read ReadFunc) error {
	if !g.Configured() {
		return g.Check("")
	}
	fmt.Fprint(out, "Admin secret: ")
	attempt, err := read()
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("reading admin secret: %w", err)
	}
	return g.Check(attempt)
}

// TerminalReader reads a masked line from f when it is a terminal and a
// plain line otherwise, so the secret can be piped in scripts.
func TerminalReader(f *os.File) ReadFunc {
	return func() (string, error) {
		fd := int(f.Fd())
		if term.IsTerminal(fd) {
			b, err := term.ReadPassword(fd)
			if err != nil {
				return "", err
			}
			return string(b), nil
		}
		return readLine(f)
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
