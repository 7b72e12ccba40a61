package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ssilveira/atacama/domain/entities"
)

func TestCacheKeyDiffersByDevice(t *testing.T) {
	a := cacheKey(entities.Device{Transport: "ssh", Host: "10.0.0.1", Username: "admin", Password: "x"})
	b := cacheKey(entities.Device{Transport: "ssh", Host: "10.0.0.2", Username: "admin", Password: "x"})
	c := cacheKey(entities.Device{Transport: "telnet", Host: "10.0.0.1", Username: "admin", Password: "x"})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestCacheKeyStable(t *testing.T) {
	dev := entities.Device{Transport: "ssh", Host: "10.0.0.1", Username: "admin", Password: "x", KeyFile: "id_ed25519"}
	assert.Equal(t, cacheKey(dev), cacheKey(dev))
}

func TestGetReturnsTransportByConfig(t *testing.T) {
	t.Cleanup(CloseAll)

	sshClient := Get(entities.Device{Transport: "ssh", Host: "192.0.2.1"})
	_, ok := sshClient.(*SSHClient)
	assert.True(t, ok, "expected SSH client for ssh transport")

	telnetClient := Get(entities.Device{Transport: "telnet", Host: "192.0.2.1"})
	_, ok = telnetClient.(*TelnetClient)
	assert.True(t, ok, "expected telnet client for telnet transport")
}

func TestGetCachesAndCloseAllDrops(t *testing.T) {
	t.Cleanup(CloseAll)

	dev := entities.Device{Transport: "ssh", Host: "192.0.2.10", Username: "admin"}
	first := Get(dev)
	second := Get(dev)
	assert.Same(t, first, second)

	CloseAll()
	third := Get(dev)
	assert.NotSame(t, first, third, "a closed handle must never be reused")
}

func TestDropLeavesTeardownToHolder(t *testing.T) {
	t.Cleanup(CloseAll)

	dev := entities.Device{Transport: "ssh", Host: "192.0.2.20", Username: "admin"}
	abandoned := Get(dev)
	Drop(dev)

	// The dropped handle stays with whoever held it; a new Get dials a
	// fresh session instead of reusing it.
	fresh := Get(dev)
	assert.NotSame(t, abandoned, fresh)
}

func TestStripEcho(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "echo and prompt removed",
			input:    "show version\nJunos: 21.4R3\nuser@r1> ",
			expected: "Junos: 21.4R3",
		},
		{
			name:     "single line",
			input:    "r1# ",
			expected: "",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripEcho(tt.input))
		})
	}
}

func TestEndsWithPrompt(t *testing.T) {
	prompts := []string{"#", ">", "%"}

	assert.True(t, endsWithPrompt("output\nr1#", prompts))
	assert.True(t, endsWithPrompt("output\nuser@r1> ", []string{">"}))
	assert.False(t, endsWithPrompt("partial output\n", prompts))
	assert.False(t, endsWithPrompt("", prompts))
	assert.False(t, endsWithPrompt("interface ge-0/0/0\n  description up", prompts))
}
