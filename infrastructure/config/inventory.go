package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/ssilveira/atacama/domain/entities"
)

// LoadInventory reads the CSV device inventory. The file must carry a
// header with at least the name and host columns; extra columns are
// ignored. Validation happens entirely up front so a malformed inventory
// aborts the run before any connection is attempted.
func LoadInventory(path, siteFilter string) ([]entities.Device, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse inventory %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("inventory %s is empty", path)
	}

	nameCol, hostCol := -1, -1
	for i, col := range records[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name":
			nameCol = i
		case "host":
			hostCol = i
		}
	}
	if nameCol == -1 || hostCol == -1 {
		return nil, fmt.Errorf("inventory %s must have 'name' and 'host' columns", path)
	}

	seen := make(map[string]bool)
	devices := make([]entities.Device, 0, len(records)-1)
	for i, row := range records[1:] {
		line := i + 2
		if nameCol >= len(row) || hostCol >= len(row) {
			return nil, fmt.Errorf("inventory %s line %d: missing columns", path, line)
		}
		name := strings.TrimSpace(row[nameCol])
		host := strings.TrimSpace(row[hostCol])
		if name == "" {
			return nil, fmt.Errorf("inventory %s line %d: empty device name", path, line)
		}
		if host == "" {
			return nil, fmt.Errorf("inventory %s line %d: empty host for device %s", path, line, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("inventory %s line %d: duplicate device name %s", path, line, name)
		}
		seen[name] = true

		dev := entities.Device{Name: name, Host: host}
		if dev.MatchesSite(siteFilter) {
			devices = append(devices, dev)
		}
	}

	return devices, nil
}
