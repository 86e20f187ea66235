// Command atcaclient is the thin interactive client glue of spec.md
// §6.3: connect to a live server over TCP, or replay a captured session
// from a snapshot file offline, and drive the stdin command loop
// described in spec.md §5's "Client" concurrency model.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ste616/atca-training-sub001/internal/clientconn"
	"github.com/ste616/atca-training-sub001/internal/snapshot"
)

func main() {
	app := &cli.App{
		Name:  "atcaclient",
		Usage: "interactive client for the amp-phase computation and distribution server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "d", Usage: "device (unused placeholder for terminal device selection, per spec.md §6.3)"},
			&cli.StringFlag{Name: "f", Usage: "replay a snapshot file offline instead of connecting to a server"},
			&cli.IntFlag{Name: "p", Value: 6050, Usage: "server port"},
			&cli.StringFlag{Name: "s", Value: "127.0.0.1", Usage: "server host"},
			&cli.StringFlag{Name: "u", Usage: "username to bind for broadcast grouping"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	filePath := c.String("f")
	if filePath != "" {
		return runFileMode(filePath)
	}
	return runServerMode(c.String("s"), c.Int("p"), c.String("u"))
}

// runFileMode implements spec.md §4.G's "Used by the client --file mode
// to replay a captured session offline."
func runFileMode(path string) error {
	data, err := snapshot.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading snapshot %s: %v\n", path, err)
		return cli.Exit("", 1)
	}
	min, max := data.MJDRange()
	fmt.Printf("loaded %s: %d cycles, mjd range [%.6f, %.6f]\n", path, len(data.Cycles), min, max)
	replayLoop(data)
	return nil
}

func replayLoop(data *snapshot.VisData) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("replay> (commands: cycles, timerange, quit)")
	for scanner.Scan() {
		switch scanner.Text() {
		case "cycles":
			for _, cd := range data.Cycles {
				fmt.Printf("%.6f\n", cd.Cycle.MJD)
			}
		case "timerange":
			min, max := data.MJDRange()
			fmt.Printf("[%.6f, %.6f]\n", min, max)
		case "quit":
			return
		default:
			fmt.Println("unrecognised command")
		}
	}
}

func runServerMode(host string, port int, username string) error {
	conn, err := clientconn.Dial(host, port, username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting to %s:%d: %v\n", host, port, err)
		return cli.Exit("", 1)
	}
	defer conn.Close()

	fmt.Printf("connected to %s:%d as client %s\n", host, port, conn.ClientID())
	conn.CommandLoop(os.Stdin, os.Stdout)
	return nil
}
