package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/job"
)

func dlqCommand() *cli.Command {
	return &cli.Command{
		Name:  "dlq",
		Usage: "dead letter queue commands",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list jobs parked in the dead-letter queue",
				Action: runDLQList,
			},
			{
				Name:      "retry",
				Usage:     "requeue a dead job back to pending",
				ArgsUsage: "JOB_ID",
				Action:    runDLQRetry,
			},
		},
	}
}

func runDLQList(c *cli.Context) error {
	ctx := context.Background()
	st, err := openStore(ctx, c)
	if err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	defer st.Close()

	jobs, err := st.ListJobs(ctx, qc.ListFilter{State: job.Dead})
	if err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	if len(jobs) == 0 {
		fmt.Println("No dead jobs.")
		return nil
	}
	for _, j := range jobs {
		fmt.Printf("%s | %s | attempts=%d | priority=%d | cmd=%s\n", j.ID, j.State, j.Attempts, j.Priority, j.Command)
	}
	return nil
}

func runDLQRetry(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		fmt.Println("Error: JOB_ID is required")
		return nil
	}

	ctx := context.Background()
	st, err := openStore(ctx, c)
	if err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	defer st.Close()

	switch err := st.RetryDead(ctx, id); err {
	case nil:
		fmt.Printf("Requeued %s from DLQ.\n", id)
	case qc.ErrNotFound:
		fmt.Println("Job not found.")
	case qc.ErrJobNotDead:
		fmt.Println("Job is not in DLQ.")
	default:
		fmt.Println("Error:", err)
	}
	return nil
}
