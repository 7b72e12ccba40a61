package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInventory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devices.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadInventory(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		site      string
		expectErr string
		expected  []string
	}{
		{
			name:     "basic inventory",
			content:  "name,host\nr1,10.0.0.1\nr2,10.0.0.2\n",
			expected: []string{"r1", "r2"},
		},
		{
			name:     "extra columns ignored",
			content:  "name,host,comment\nr1,10.0.0.1,core\n",
			expected: []string{"r1"},
		},
		{
			name:     "site filter case insensitive",
			content:  "name,host\nNYC-r1,10.0.0.1\nLAX-r1,10.1.0.1\nnyc-r2,10.0.0.2\n",
			site:     "NYC",
			expected: []string{"NYC-r1", "nyc-r2"},
		},
		{
			name:      "duplicate name rejected",
			content:   "name,host\nr1,10.0.0.1\nr1,10.0.0.2\n",
			expectErr: "duplicate device name",
		},
		{
			name:      "missing host column",
			content:   "name,address\nr1,10.0.0.1\n",
			expectErr: "'name' and 'host' columns",
		},
		{
			name:      "empty host",
			content:   "name,host\nr1,\n",
			expectErr: "empty host",
		},
		{
			name:      "empty name",
			content:   "name,host\n,10.0.0.1\n",
			expectErr: "empty device name",
		},
		{
			name:      "empty file",
			content:   "",
			expectErr: "is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeInventory(t, tt.content)
			devices, err := LoadInventory(path, tt.site)
			if tt.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectErr)
				return
			}
			require.NoError(t, err)
			names := make([]string, 0, len(devices))
			for _, d := range devices {
				names = append(names, d.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestLoadInventoryMissingFile(t *testing.T) {
	_, err := LoadInventory(filepath.Join(t.TempDir(), "nope.csv"), "")
	require.Error(t, err)
}

func TestLoadInventoryPreservesOrder(t *testing.T) {
	path := writeInventory(t, "name,host\nzulu,10.0.0.3\nalpha,10.0.0.1\nmike,10.0.0.2\n")
	devices, err := LoadInventory(path, "")
	require.NoError(t, err)
	require.Len(t, devices, 3)
	assert.Equal(t, "zulu", devices[0].Name)
	assert.Equal(t, "alpha", devices[1].Name)
	assert.Equal(t, "mike", devices[2].Name)
}
