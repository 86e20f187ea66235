package config

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	reader := strings.NewReader(`{
		"listenAddr": "0.0.0.0:6050",
		"statusHost": "",
		"statusPort": 8080,
		"serverType": "correlator",
		"snapshotPath": "./snapshot.bin",
		"snapshotCron": "0 */10 * * * *",
		"logDir": "./logs",
		"defaultOptionsSet": "default"
	}`)

	cf, err := parse(reader)
	if err != nil {
		t.Fatal(err)
	}
	if cf.ListenAddr != "0.0.0.0:6050" {
		t.Errorf("ListenAddr = %q, want 0.0.0.0:6050", cf.ListenAddr)
	}
	if cf.StatusPort != 8080 {
		t.Errorf("StatusPort = %d, want 8080", cf.StatusPort)
	}
	if cf.ServerType != "correlator" {
		t.Errorf("ServerType = %q, want correlator", cf.ServerType)
	}
}

func TestMergeOverridesNonZeroFieldsOnly(t *testing.T) {
	base := &File{ListenAddr: "0.0.0.0:6050", StatusPort: 8080, LogDir: "./logs"}

	merged := Merge(base, Overrides{StatusPort: 9090})

	if merged.ListenAddr != "0.0.0.0:6050" {
		t.Errorf("ListenAddr should be untouched by a zero override, got %q", merged.ListenAddr)
	}
	if merged.StatusPort != 9090 {
		t.Errorf("StatusPort = %d, want 9090 (overridden)", merged.StatusPort)
	}
	if merged.LogDir != "./logs" {
		t.Errorf("LogDir should be untouched by an empty override, got %q", merged.LogDir)
	}
}

func TestMergeNilBase(t *testing.T) {
	merged := Merge(nil, Overrides{ListenAddr: "127.0.0.1:6050"})
	if merged.ListenAddr != "127.0.0.1:6050" {
		t.Errorf("ListenAddr = %q, want 127.0.0.1:6050", merged.ListenAddr)
	}
}
