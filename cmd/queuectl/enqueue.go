package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ruubhagat/queuectl/job"
)

// jobInput mirrors the subset of Job fields the submitter is allowed
// to set directly, via inline JSON or a file.
type jobInput struct {
	ID         string `json:"id"`
	Command    string `json:"command"`
	Priority   *int   `json:"priority"`
	Timeout    *int   `json:"timeout"`
	MaxRetries *int   `json:"max_retries"`
	RunAt      string `json:"run_at"`
}

func enqueueCommand() *cli.Command {
	return &cli.Command{
		Name:      "enqueue",
		Usage:     "add a new job to the queue",
		ArgsUsage: "[job_json]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "path to a JSON file containing the job"},
			&cli.IntFlag{Name: "priority", Usage: "job priority (higher processed first)"},
			&cli.IntFlag{Name: "timeout", Usage: "job timeout in seconds"},
			&cli.StringFlag{Name: "run-at", Usage: "schedule job at ISO time (UTC), e.g. 2025-11-12T15:30:00Z"},
		},
		Action: runEnqueue,
	}
}

func runEnqueue(c *cli.Context) error {
	ctx := context.Background()

	var input jobInput
	if file := c.String("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		if err := json.Unmarshal(data, &input); err != nil {
			fmt.Println("Error:", err)
			return nil
		}
	} else {
		raw := c.Args().First()
		if raw == "" {
			fmt.Println("Error: either provide job JSON or use --file <path>")
			return nil
		}
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			fmt.Println("Error:", err)
			return nil
		}
	}

	if input.ID == "" || input.Command == "" {
		fmt.Println("Error: job must include 'id' and 'command'")
		return nil
	}

	if c.IsSet("priority") {
		p := c.Int("priority")
		input.Priority = &p
	}
	if c.IsSet("timeout") {
		t := c.Int("timeout")
		input.Timeout = &t
	}

	var nextRunAt int64
	runAt := c.String("run-at")
	if runAt == "" {
		runAt = input.RunAt
	}
	if runAt != "" {
		parsed, err := parseRunAt(runAt)
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		nextRunAt = parsed
	}

	st, cfg, err := openConfig(ctx, c)
	if err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	defer st.Close()

	maxRetries := 0
	switch {
	case input.MaxRetries != nil:
		maxRetries = *input.MaxRetries
	default:
		maxRetries, err = cfg.DefaultMaxRetries(ctx)
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
	}

	priority := 0
	if input.Priority != nil {
		priority = *input.Priority
	}

	j := &job.Job{
		ID:         input.ID,
		Command:    input.Command,
		State:      job.Pending,
		MaxRetries: maxRetries,
		Priority:   priority,
		Timeout:    input.Timeout,
		NextRunAt:  nextRunAt,
	}

	if err := st.SaveJob(ctx, j); err != nil {
		fmt.Println("Error:", err)
		return nil
	}

	timeoutStr := "none"
	if j.Timeout != nil {
		timeoutStr = fmt.Sprintf("%d", *j.Timeout)
	}
	fmt.Printf("Job '%s' enqueued. priority=%d run_at=%d timeout=%s\n", j.ID, j.Priority, j.NextRunAt, timeoutStr)
	return nil
}

// parseRunAt accepts a UTC ISO-8601 timestamp ("2025-11-12T15:30:00Z")
// or the space-separated variant ("2025-11-12 15:30:00"), treating a
// naive time as UTC, per spec.md §6.
func parseRunAt(s string) (int64, error) {
	candidates := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range candidates {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("invalid run-at datetime %q: use ISO format, e.g. 2025-11-12T15:30:00Z", strings.TrimSpace(s))
}
