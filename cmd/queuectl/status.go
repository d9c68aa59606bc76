package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/broadcast"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "show summary of job states and basic metrics",
		Action: runStatus,
	}
}

func runStatus(c *cli.Context) error {
	ctx := context.Background()

	st, err := openStore(ctx, c)
	if err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	defer st.Close()

	status, err := broadcast.BuildStatus(ctx, st, qc.SystemClock)
	if err != nil {
		fmt.Println("Error:", err)
		return nil
	}

	fmt.Println("=== Queue Summary ===")
	fmt.Printf("pending: %d\n", status.Pending)
	fmt.Printf("processing: %d\n", status.Processing)
	fmt.Printf("completed: %d\n", status.Completed)
	fmt.Printf("dead: %d\n", status.Dead)
	fmt.Printf("Total jobs: %d\n", status.Total)
	fmt.Printf("Avg attempts per job: %.2f\n", status.AvgAttempts)
	return nil
}
