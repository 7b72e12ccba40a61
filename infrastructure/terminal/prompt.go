// Package terminal prompts the operator for credentials once per run.
// Nothing read here is ever written back to disk.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ssilveira/atacama/domain/entities"
)

// PromptCredentials reads a username and a password from in. When in is
// an interactive terminal the password is read with echo disabled.
// Set passwordless for key-based auth to skip the password prompt.
func PromptCredentials(in io.Reader, out io.Writer, passwordless bool) (entities.Credentials, error) {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "Username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return entities.Credentials{}, fmt.Errorf("failed to read username: %w", err)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return entities.Credentials{}, fmt.Errorf("username must not be empty")
	}

	creds := entities.Credentials{Username: username}
	if passwordless {
		return creds, nil
	}

	fmt.Fprint(out, "Password: ")
	password, err := readPassword(in, reader)
	if err != nil {
		return entities.Credentials{}, fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(out)

	creds.Password = password
	return creds, nil
}

func readPassword(in io.Reader, reader *bufio.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		masked, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(masked), nil
	}
	// Non-interactive input (tests, pipes): fall back to a plain line read
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
