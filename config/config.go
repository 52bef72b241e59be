// Package config loads the allocator's slice of the surrounding service's
// YAML configuration file. Other subsystems' keys live in the same
// document; Load ignores anything it doesn't recognize rather than
// rejecting the file.
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/torusgrid/blockalloc/geometry"
	"github.com/torusgrid/blockalloc/grid"
)

// Config holds the allocator-relevant keys from the surrounding config
// file: LayoutMode, DenyPassthrough, BasePartitionNodeCnt,
// NodeCardNodeCnt.
type Config struct {
	LayoutMode           string `yaml:"LayoutMode"`
	DenyPassthrough      string `yaml:"DenyPassthrough"`
	BasePartitionNodeCnt int    `yaml:"BasePartitionNodeCnt"`
	NodeCardNodeCnt      int    `yaml:"NodeCardNodeCnt"`
}

// Default returns a Config with conservative defaults: no layout mode
// override, no passthrough denial, and the node counts left at 0 (callers
// should treat 0 as "unset" and fall back to their own default).
func Default() Config {
	return Config{}
}

// Load reads and unmarshals the YAML document at path. Unknown keys
// (belonging to other subsystems sharing the file) are ignored by
// yaml.Unmarshal's default behavior of leaving unrecognized fields alone.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(raw)
}

// Parse unmarshals a YAML document already read into memory.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DenyPass resolves the DenyPassthrough comma list ("X,Y,Z") into a
// geometry.DenyPass bitmap, the default a request's own deny_pass falls
// back to when unset.
func (c Config) DenyPass() geometry.DenyPass {
	var d geometry.DenyPass
	for _, tok := range strings.Split(c.DenyPassthrough, ",") {
		switch strings.ToUpper(strings.TrimSpace(tok)) {
		case "X":
			d |= geometry.DenyX
		case "Y":
			d |= geometry.DenyY
		case "Z":
			d |= geometry.DenyZ
		}
	}
	return d
}

// axisOf maps a single DenyPassthrough token to its grid.Axis. Only the
// package's own tests call it; DenyPass above does its own X/Y/Z switch.
func axisOf(s string) (grid.Axis, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return grid.AxisX, true
	case "Y":
		return grid.AxisY, true
	case "Z":
		return grid.AxisZ, true
	default:
		return 0, false
	}
}
