package transport

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"

	"github.com/ssilveira/atacama/domain/entities"
)

// Client is the transport-level session contract shared by SSH and telnet
type Client interface {
	Connect() error
	Disconnect()
	ExecuteCommand(cmd string) (string, error)
	IsConnected() bool
}

// AuthConfigurable allows setting authentication prompts after client creation
type AuthConfigurable interface {
	SetAuthSequence(prompts []entities.AuthPrompt)
}

// PromptConfigurable allows overriding the prompt terminators
type PromptConfigurable interface {
	SetPrompts(prompts []string)
}

// SetupConfigurable allows setting post-login commands (pager disabling
// and the like) before the connection is established
type SetupConfigurable interface {
	SetSetupCommands(cmds []string)
}

var (
	clientCache   = make(map[string]Client)
	clientCacheMu sync.Mutex
)

func cacheKey(cfg entities.Device) string {
	// Name participates so every inventory row gets its own session even
	// when two rows point at the same address
	keyData := struct {
		Name      string
		Transport string
		Host      string
		Port      int
		Username  string
		Password  string
		KeyFile   string
	}{
		Name:      cfg.Name,
		Transport: cfg.Transport,
		Host:      cfg.Host,
		Port:      cfg.Port,
		Username:  cfg.Username,
		Password:  cfg.Password,
		KeyFile:   cfg.KeyFile,
	}
	bytes, _ := json.Marshal(keyData)
	hash := sha256.Sum256(bytes)
	return hex.EncodeToString(hash[:])
}

// Get returns a cached client for the provided device or creates a new one
func Get(cfg entities.Device) Client {
	clientCacheMu.Lock()
	defer clientCacheMu.Unlock()
	key := cacheKey(cfg)
	if client, exists := clientCache[key]; exists {
		return client
	}
	client := newClient(cfg)
	clientCache[key] = client
	return client
}

// Drop removes the device handle from the cache without closing it.
// The caller that abandoned the session owns its teardown; a later Get
// for the same device dials a fresh session.
func Drop(cfg entities.Device) {
	clientCacheMu.Lock()
	defer clientCacheMu.Unlock()
	delete(clientCache, cacheKey(cfg))
}

// CloseAll releases every cached client session. Closed handles are
// dropped from the cache so they are never reused.
func CloseAll() {
	clientCacheMu.Lock()
	defer clientCacheMu.Unlock()
	for key, client := range clientCache {
		client.Disconnect()
		delete(clientCache, key)
	}
}

func newClient(cfg entities.Device) Client {
	if cfg.Transport == "telnet" {
		return NewTelnetClient(cfg)
	}
	return NewSSHClient(cfg)
}

// stripEcho removes the echoed command line and the trailing prompt from
// raw session output
func stripEcho(output string) string {
	lines := strings.Split(output, "\n")
	if len(lines) > 1 {
		return strings.Join(lines[1:len(lines)-1], "\n")
	}
	return ""
}

// endsWithPrompt reports whether the last line of the buffered output
// terminates in one of the prompt markers
func endsWithPrompt(output string, prompts []string) bool {
	idx := strings.LastIndex(output, "\n")
	last := strings.TrimSpace(output[idx+1:])
	if last == "" {
		return false
	}
	for _, p := range prompts {
		if strings.HasSuffix(last, p) {
			return true
		}
	}
	return false
}
