package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/executor"
)

// gracePeriod bounds how long Supervisor.Stop waits for in-flight jobs
// to finish once a shutdown signal has been received.
const gracePeriod = 30 * time.Second

func workerCommand() *cli.Command {
	return &cli.Command{
		Name:  "worker",
		Usage: "manage worker processes",
		Subcommands: []*cli.Command{
			{
				Name:  "start",
				Usage: "start one or more worker loops",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "count", Value: 1, Usage: "number of worker loops to start"},
					&cli.BoolFlag{Name: "foreground", Usage: "run a single worker loop in this process, without a supervisor"},
				},
				Action: runWorkerStart,
			},
		},
	}
}

func runWorkerStart(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, cfg, err := openConfig(ctx, c)
	if err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	defer st.Close()

	log := slog.Default()
	exec := executor.NewShell()

	pollMillis, err := cfg.PollInterval(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	poll := time.Duration(pollMillis) * time.Millisecond

	count := c.Int("count")
	foreground := c.Bool("foreground")
	if foreground {
		count = 1
	}

	fmt.Printf("Starting %d worker(s)%s...\n", count, foregroundSuffix(foreground))

	if foreground {
		loop := qc.NewWorkerLoop(st, exec, cfg, qc.SystemClock, qc.WorkerLoopConfig{
			ID:           "worker-1",
			PollInterval: poll,
		}, log)
		if err := loop.Start(ctx); err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		<-ctx.Done()
		_ = loop.Stop(gracePeriod)
		return nil
	}

	supervisor := qc.NewSupervisor(st, exec, cfg, qc.SystemClock, qc.SupervisorConfig{
		Count:        count,
		PollInterval: poll,
	}, log)
	if err := supervisor.Start(ctx); err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	<-ctx.Done()
	_ = supervisor.Stop(gracePeriod)
	return nil
}

func foregroundSuffix(foreground bool) string {
	if foreground {
		return " (foreground)"
	}
	return ""
}
