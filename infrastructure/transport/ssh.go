package transport

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/ssilveira/atacama/domain/entities"
)

// SSHClient manages an interactive SSH session with a network device
type SSHClient struct {
	config  entities.Device
	client  *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser
	reader  *bufio.Reader
	netConn net.Conn
	prompts []string
	setup   []string
}

// NewSSHClient creates a new SSH client with the given device configuration
func NewSSHClient(cfg entities.Device) *SSHClient {
	return &SSHClient{
		config:  cfg,
		prompts: []string{PromptPrivileged, PromptOperational, PromptShell},
	}
}

// SetPrompts overrides the prompt terminators the client waits for
func (sc *SSHClient) SetPrompts(prompts []string) {
	if len(prompts) > 0 {
		sc.prompts = prompts
	}
}

// SetSetupCommands configures commands sent right after login, before any
// operator command (pager disabling and the like)
func (sc *SSHClient) SetSetupCommands(cmds []string) {
	sc.setup = cmds
}

func (sc *SSHClient) authMethods() ([]ssh.AuthMethod, error) {
	if sc.config.KeyFile != "" {
		keyData, err := os.ReadFile(sc.config.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key %s: %w", sc.config.KeyFile, err)
		}
		signer, err := ssh.ParsePrivateKey(keyData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key %s: %w", sc.config.KeyFile, err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}
	return []ssh.AuthMethod{ssh.Password(sc.config.Password)}, nil
}

// Connect establishes the SSH session and waits for the device prompt
func (sc *SSHClient) Connect() error {
	if sc.IsConnected() {
		return nil
	}

	auth, err := sc.authMethods()
	if err != nil {
		return err
	}

	addr := sc.config.Addr("22")
	sshConfig := &ssh.ClientConfig{
		User:            sc.config.Username,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         DefaultTimeout,
	}

	dialer := &net.Dialer{Timeout: DefaultTimeout}
	rawConn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s via SSH: %w", sc.config.Host, err)
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(rawConn, addr, sshConfig)
	if err != nil {
		rawConn.Close()
		return fmt.Errorf("failed to establish SSH client connection to %s: %w", sc.config.Host, err)
	}

	client := ssh.NewClient(clientConn, chans, reqs)

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		rawConn.Close()
		return fmt.Errorf("failed to create SSH session for %s: %w", sc.config.Host, err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 9600,
		ssh.TTY_OP_OSPEED: 9600,
	}
	if err := session.RequestPty("vt100", 80, 40, modes); err != nil {
		session.Close()
		client.Close()
		rawConn.Close()
		return fmt.Errorf("failed to request PTY for %s: %w", sc.config.Host, err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		rawConn.Close()
		return fmt.Errorf("failed to get stdin pipe for %s: %w", sc.config.Host, err)
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		rawConn.Close()
		return fmt.Errorf("failed to get stdout pipe for %s: %w", sc.config.Host, err)
	}

	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		rawConn.Close()
		return fmt.Errorf("failed to start shell for %s: %w", sc.config.Host, err)
	}

	sc.client = client
	sc.session = session
	sc.stdin = stdin
	sc.reader = bufio.NewReader(stdout)
	sc.netConn = rawConn

	if _, err := sc.readUntilAny(sc.prompts, DefaultTimeout); err != nil {
		sc.Disconnect()
		return err
	}

	for _, cmd := range sc.setup {
		if err := sc.send(cmd + "\n"); err != nil {
			sc.Disconnect()
			return fmt.Errorf("failed to send setup command to %s: %w", sc.config.Host, err)
		}
		if _, err := sc.readUntilAny(sc.prompts, DefaultTimeout); err != nil {
			sc.Disconnect()
			return err
		}
	}

	return nil
}

// Disconnect tears the session down; the handle must not be reused afterwards
func (sc *SSHClient) Disconnect() {
	if sc.session != nil {
		sc.session.Close()
		sc.session = nil
	}
	if sc.client != nil {
		sc.client.Close()
		sc.client = nil
	}
	if sc.netConn != nil {
		sc.netConn.Close()
		sc.netConn = nil
	}
	sc.stdin = nil
	sc.reader = nil
}

func (sc *SSHClient) IsConnected() bool {
	return sc.session != nil && sc.client != nil
}

// ExecuteCommand sends a command and returns its output with the echoed
// command and trailing prompt stripped
func (sc *SSHClient) ExecuteCommand(cmd string) (string, error) {
	if !sc.IsConnected() {
		return "", fmt.Errorf("not connected to %s", sc.config.Host)
	}
	if err := sc.send(cmd + "\n"); err != nil {
		return "", fmt.Errorf("failed to send command %s: %w", cmd, err)
	}

	output, err := sc.readUntilAny(sc.prompts, DefaultTimeout)
	if err != nil {
		return "", fmt.Errorf("error executing %s: %w", cmd, err)
	}

	return stripEcho(output), nil
}

func (sc *SSHClient) send(data string) error {
	_, err := sc.stdin.Write([]byte(data))
	return err
}

func (sc *SSHClient) readUntilAny(patterns []string, timeout time.Duration) (string, error) {
	buffer := make([]byte, BufferSize)
	var output strings.Builder
	output.Grow(BufferSize)
	deadline := time.Now().Add(timeout)

	for {
		if sc.netConn != nil {
			_ = sc.netConn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		}

		n, err := sc.reader.Read(buffer)
		if n > 0 {
			output.Write(buffer[:n])
			if endsWithPrompt(output.String(), patterns) {
				return output.String(), nil
			}
		}

		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				if time.Now().After(deadline) {
					return output.String(), fmt.Errorf("timeout waiting for prompts %s", strings.Join(patterns, ", "))
				}
				continue
			}
			return output.String(), fmt.Errorf("read error: %w", err)
		}

		if time.Now().After(deadline) {
			return output.String(), fmt.Errorf("timeout waiting for prompts %s", strings.Join(patterns, ", "))
		}
	}
}
