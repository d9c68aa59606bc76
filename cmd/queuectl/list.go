package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/job"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list jobs by state (or all)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "state", Usage: "filter jobs by state (pending, processing, completed, dead)"},
			&cli.BoolFlag{Name: "verbose", Usage: "show stdout/stderr for jobs"},
		},
		Action: runList,
	}
}

func runList(c *cli.Context) error {
	ctx := context.Background()

	filter := qc.ListFilter{}
	if raw := c.String("state"); raw != "" {
		state, err := job.ParseState(raw)
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		filter.State = state
	}

	st, err := openStore(ctx, c)
	if err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	defer st.Close()

	jobs, err := st.ListJobs(ctx, filter)
	if err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs found.")
		return nil
	}

	verbose := c.Bool("verbose")
	for _, j := range jobs {
		fmt.Printf("%s | %s | attempts=%d | priority=%d | cmd=%s\n", j.ID, j.State, j.Attempts, j.Priority, j.Command)
		if verbose {
			fmt.Printf("  stdout: %s\n", derefOr(j.LastStdout, ""))
			fmt.Printf("  stderr: %s\n", derefOr(j.LastStderr, ""))
			fmt.Printf("  next_run_at: %d\n", j.NextRunAt)
		}
	}
	return nil
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
