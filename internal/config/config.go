// Package config reads the server's JSON configuration file, following
// jsonconfig's GetJSONConfigFromFile/getJSONConfig idiom, and applies
// command line overrides the way apps/proxy/tcpprox.go's SetConfig does:
// a zero/empty flag value leaves the config file's setting alone, a
// non-zero one overwrites it.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// File is the on-disk JSON shape read at startup, per SPEC_FULL.md
// §10.3. Field names follow the lower-camel-case style jsonconfig.Config
// uses for its own JSON tags.
type File struct {
	ListenAddr string `json:"listenAddr"`

	StatusHost string `json:"statusHost"`
	StatusPort int    `json:"statusPort"`

	ServerType string `json:"serverType"`

	SnapshotPath string `json:"snapshotPath"`
	SnapshotCron string `json:"snapshotCron"`

	LogDir string `json:"logDir"`

	// DefaultOptionsSet names an options set in the config file. It is
	// parsed but not used: cmd/atcaserver does not pass it to the
	// server, and the server's n_options=0 fallback does not consult it.
	DefaultOptionsSet string `json:"defaultOptionsSet"`
}

// Load reads and parses a JSON config file, the same two-step
// read-then-unmarshal jsonconfig.GetJSONConfigFromFile performs.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cf File
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cf, nil
}

// Overrides holds command line flag values destined to win over
// whatever a config file set, mirroring SetConfig's parameter list in
// apps/proxy/tcpprox.go (empty string / zero int means "not set on the
// command line, leave the config file's value alone").
type Overrides struct {
	ListenAddr   string
	StatusHost   string
	StatusPort   int
	ServerType   string
	SnapshotPath string
	SnapshotCron string
	LogDir       string
}

// Merge applies o on top of base, following the non-zero-wins rule
// SetConfig uses, and returns the resulting File. base may be nil, in
// which case o alone determines the result.
func Merge(base *File, o Overrides) *File {
	result := File{}
	if base != nil {
		result = *base
	}
	if o.ListenAddr != "" {
		result.ListenAddr = o.ListenAddr
	}
	if o.StatusHost != "" {
		result.StatusHost = o.StatusHost
	}
	if o.StatusPort != 0 {
		result.StatusPort = o.StatusPort
	}
	if o.ServerType != "" {
		result.ServerType = o.ServerType
	}
	if o.SnapshotPath != "" {
		result.SnapshotPath = o.SnapshotPath
	}
	if o.SnapshotCron != "" {
		result.SnapshotCron = o.SnapshotCron
	}
	if o.LogDir != "" {
		result.LogDir = o.LogDir
	}
	return &result
}
