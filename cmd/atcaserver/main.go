// Command atcaserver runs the TCP runtime of spec.md §4.E: it loads (or
// creates) the canonical vis_data store, then accepts client
// connections until told to shut down.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ste616/atca-training-sub001/internal/config"
	"github.com/ste616/atca-training-sub001/internal/protocol"
	"github.com/ste616/atca-training-sub001/internal/scandata"
	"github.com/ste616/atca-training-sub001/internal/server"
	"github.com/ste616/atca-training-sub001/internal/snapshot"
)

func main() {
	app := &cli.App{
		Name:  "atcaserver",
		Usage: "amp-phase computation and distribution server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "JSON config file; command line flags below override its settings"},
			&cli.StringFlag{Name: "listen", Usage: "address to accept client connections on"},
			&cli.StringFlag{Name: "status-host", Usage: "address for the HTTP status page"},
			&cli.IntFlag{Name: "status-port", Usage: "port for the HTTP status page"},
			&cli.StringFlag{Name: "load", Usage: "seed the server's vis_data from a snapshot file"},
			&cli.StringFlag{Name: "snapshot-path", Usage: "where periodic snapshots are written"},
			&cli.StringFlag{Name: "snapshot-cron", Usage: "robfig/cron schedule for periodic snapshot dumps"},
			&cli.StringFlag{Name: "server-type", Usage: "one of simulator, correlator, testing"},
			&cli.StringFlag{Name: "log-dir", Usage: "directory for wire/session daily logs"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	data, err := loadOrEmpty(c.String("load"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("loading snapshot: %v", err), 1)
	}

	var fileCfg *config.File
	if path := c.String("config"); path != "" {
		fileCfg, err = config.Load(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("loading config file %s: %v", path, err), 1)
		}
	}
	merged := config.Merge(fileCfg, config.Overrides{
		ListenAddr:   c.String("listen"),
		StatusHost:   c.String("status-host"),
		StatusPort:   c.Int("status-port"),
		ServerType:   c.String("server-type"),
		SnapshotPath: c.String("snapshot-path"),
		SnapshotCron: c.String("snapshot-cron"),
		LogDir:       c.String("log-dir"),
	})
	// Flags that were never set on the command line or in a config file
	// fall back to the same defaults the bare flag declarations used to
	// carry directly.
	if merged.ListenAddr == "" {
		merged.ListenAddr = "0.0.0.0:6050"
	}
	if merged.StatusPort == 0 {
		merged.StatusPort = 8080
	}
	if merged.SnapshotPath == "" {
		merged.SnapshotPath = "./snapshot.bin"
	}
	if merged.SnapshotCron == "" {
		merged.SnapshotCron = "0 */10 * * * *"
	}
	if merged.LogDir == "" {
		merged.LogDir = "./logs"
	}

	cfg := server.Config{
		ListenAddr:      merged.ListenAddr,
		StatusHost:      merged.StatusHost,
		StatusPort:      merged.StatusPort,
		ServerType:      parseServerType(merged.ServerType),
		SnapshotPath:    merged.SnapshotPath,
		SnapshotCron:    merged.SnapshotCron,
		ShutdownTimeout: 5 * time.Second,
		LogDir:          merged.LogDir,
	}

	srv := server.New(cfg, data)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		srv.Shutdown()
		os.Exit(0)
	}()

	return srv.Run()
}

func loadOrEmpty(path string) (*snapshot.VisData, error) {
	if path == "" {
		return &snapshot.VisData{Header: &scandata.Header{}}, nil
	}
	return snapshot.Load(path)
}

func parseServerType(name string) protocol.ServerType {
	switch name {
	case "correlator":
		return protocol.ServerTypeCorrelator
	case "testing":
		return protocol.ServerTypeTesting
	default:
		return protocol.ServerTypeSimulator
	}
}
