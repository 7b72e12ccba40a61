package transport

import (
	"fmt"
	"strings"
	"time"

	"github.com/ziutek/telnet"

	"github.com/ssilveira/atacama/domain/entities"
)

const (
	DefaultTimeout    = 60 * time.Second
	BufferSize        = 4096
	PromptUsername    = "Username:"
	PromptLogin       = "login:"
	PromptPassword    = "Password:"
	PromptOperational = ">"
	PromptPrivileged  = "#"
	PromptShell       = "%"
)

// TelnetClient manages a telnet connection to a network device
type TelnetClient struct {
	conn         *telnet.Conn
	config       entities.Device
	authSequence []entities.AuthPrompt
	prompts      []string
}

// NewTelnetClient creates a new telnet client with the given configuration
func NewTelnetClient(cfg entities.Device) *TelnetClient {
	return &TelnetClient{
		config:  cfg,
		prompts: []string{PromptPrivileged, PromptOperational, PromptShell},
	}
}

// SetAuthSequence configures the login prompt sequence for this client
func (tc *TelnetClient) SetAuthSequence(prompts []entities.AuthPrompt) {
	tc.authSequence = prompts
}

// SetPrompts overrides the prompt terminators the client waits for
func (tc *TelnetClient) SetPrompts(prompts []string) {
	if len(prompts) > 0 {
		tc.prompts = prompts
	}
}

// Connect establishes a telnet connection and walks the login sequence
func (tc *TelnetClient) Connect() error {
	if tc.conn != nil {
		return nil
	}
	conn, err := telnet.Dial("tcp", tc.config.Addr("23"))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", tc.config.Host, err)
	}
	tc.conn = conn
	tc.conn.SetReadDeadline(time.Now().Add(DefaultTimeout))
	tc.conn.SetWriteDeadline(time.Now().Add(DefaultTimeout))

	prompts := tc.authSequence
	if len(prompts) == 0 {
		prompts = []entities.AuthPrompt{
			{WaitFor: PromptUsername, SendCmd: tc.config.Username + "\n"},
			{WaitFor: PromptPassword, SendCmd: tc.config.Password + "\n"},
		}
	}

	for _, p := range prompts {
		output, err := tc.readUntil(p.WaitFor, DefaultTimeout)
		if err != nil {
			return fmt.Errorf("failed to wait for %s: %w, output: %s", p.WaitFor, err, output)
		}
		if p.SendCmd != "" {
			tc.conn.Write([]byte(p.SendCmd))
		}
	}

	if _, err := tc.readUntilAny(tc.prompts, DefaultTimeout); err != nil {
		return fmt.Errorf("failed to reach device prompt on %s: %w", tc.config.Host, err)
	}
	return nil
}

func (tc *TelnetClient) readUntil(pattern string, timeout time.Duration) (string, error) {
	return tc.readUntilAny([]string{pattern}, timeout)
}

func (tc *TelnetClient) readUntilAny(patterns []string, timeout time.Duration) (string, error) {
	buffer := make([]byte, BufferSize)
	var output strings.Builder
	output.Grow(BufferSize)
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		n, err := tc.conn.Read(buffer)
		if err != nil {
			return output.String(), fmt.Errorf("read error: %w", err)
		}
		if n > 0 {
			output.Write(buffer[:n])
			if endsWithPrompt(output.String(), patterns) {
				return output.String(), nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return output.String(), fmt.Errorf("timeout waiting for %s", strings.Join(patterns, ", "))
}

// Disconnect closes the telnet connection
func (tc *TelnetClient) Disconnect() {
	if tc.conn != nil {
		tc.conn.Close()
		tc.conn = nil
	}
}

func (tc *TelnetClient) IsConnected() bool {
	return tc.conn != nil
}

// ExecuteCommand sends a command to the device and returns its output
func (tc *TelnetClient) ExecuteCommand(cmd string) (string, error) {
	if tc.conn == nil {
		return "", fmt.Errorf("not connected to %s", tc.config.Host)
	}
	tc.conn.Write([]byte(cmd + "\n"))
	output, err := tc.readUntilAny(tc.prompts, DefaultTimeout)
	if err != nil {
		return "", fmt.Errorf("error executing %s: %w", cmd, err)
	}
	return stripEcho(output), nil
}
