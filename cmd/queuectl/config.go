package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	qc "github.com/ruubhagat/queuectl"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "manage configuration values",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "read a configuration value",
				ArgsUsage: "KEY",
				Action:    runConfigGet,
			},
			{
				Name:      "set",
				Usage:     "write a configuration value",
				ArgsUsage: "KEY VALUE",
				Action:    runConfigSet,
			},
		},
	}
}

func runConfigGet(c *cli.Context) error {
	key := c.Args().First()
	if key == "" {
		fmt.Println("Error: KEY is required")
		return nil
	}

	ctx := context.Background()
	st, err := openStore(ctx, c)
	if err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	defer st.Close()

	val, err := st.GetConfig(ctx, key)
	if err != nil {
		if err == qc.ErrNotFound {
			fmt.Println("Not set.")
			return nil
		}
		fmt.Println("Error:", err)
		return nil
	}
	fmt.Printf("%s = %s\n", key, val)
	return nil
}

func runConfigSet(c *cli.Context) error {
	key := c.Args().Get(0)
	value := c.Args().Get(1)
	if key == "" || value == "" {
		fmt.Println("Error: KEY and VALUE are required")
		return nil
	}

	ctx := context.Background()
	st, err := openStore(ctx, c)
	if err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	defer st.Close()

	if err := st.SetConfig(ctx, key, value); err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	fmt.Printf("Config '%s' set to %s\n", key, value)
	return nil
}
