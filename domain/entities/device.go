package entities

import (
	"net"
	"strconv"
	"strings"
)

// Device identifies a single managed network device for a run
type Device struct {
	Name      string `yaml:"hostname"`
	Host      string `yaml:"host"`
	Platform  string `yaml:"platform"`
	Transport string `yaml:"transport"`
	Source    string `yaml:"source"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	KeyFile   string `yaml:"key_file"`
	Port      int    `yaml:"port"`
}

// PlatformID returns the normalized platform identifier for driver lookup
func (d Device) PlatformID() string {
	platform := strings.ToLower(strings.TrimSpace(d.Platform))
	if platform == "" {
		return "auto"
	}
	return platform
}

// Addr joins the device host with the given default port unless the
// device overrides it
func (d Device) Addr(defaultPort string) string {
	if d.Port > 0 {
		return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	}
	return net.JoinHostPort(d.Host, defaultPort)
}

// MatchesSite reports whether the device name contains the site code,
// case-insensitively. An empty filter matches every device.
func (d Device) MatchesSite(site string) bool {
	if site == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Name), strings.ToLower(site))
}
