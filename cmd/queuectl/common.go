// Command queuectl is the CLI front end for the job queue engine: job
// submission, inspection, configuration, worker supervision, DLQ
// management and the dashboard HTTP/WS server all live behind one
// binary.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/store"
)

const dbFlagName = "db"

func dbFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    dbFlagName,
		Aliases: []string{"d"},
		Value:   "queuectl.db",
		Usage:   "path to the SQLite database file",
		EnvVars: []string{"QUEUECTL_DB"},
	}
}

func openStore(ctx context.Context, c *cli.Context) (*store.Store, error) {
	return store.Open(ctx, c.String(dbFlagName))
}

func openConfig(ctx context.Context, c *cli.Context) (*store.Store, *qc.Config, error) {
	st, err := openStore(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	return st, qc.NewConfig(st), nil
}

func main() {
	app := &cli.App{
		Name:  "queuectl",
		Usage: "a persistent background job queue",
		Flags: []cli.Flag{dbFlag()},
		Commands: []*cli.Command{
			enqueueCommand(),
			listCommand(),
			statusCommand(),
			configCommand(),
			workerCommand(),
			dlqCommand(),
			serveCommand(),
		},
	}

	// Errors are printed to stdout rather than stderr and the exit code
	// stays 0; non-zero is reserved for future use (matches
	// original_source/queuectl.py's click error handling).
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
	}
}
