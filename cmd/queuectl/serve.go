package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/broadcast"
	"github.com/ruubhagat/queuectl/dashboard"
)

const (
	broadcastInterval = time.Second
	serveStopTimeout  = 5 * time.Second
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the dashboard HTTP/WS server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "address to listen on"},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, c)
	if err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	defer st.Close()

	log := slog.Default()
	auth := dashboard.NewAuth(os.Getenv("DASHBOARD_TOKEN"))

	bc := broadcast.New(st, st, qc.SystemClock, broadcastInterval, log)
	if err := bc.Start(ctx); err != nil {
		fmt.Println("Error:", err)
		return nil
	}
	defer bc.Stop(serveStopTimeout)

	dash := dashboard.New(st, st, qc.SystemClock, auth, bc)
	router := dashboard.NewRouter(dash)

	srv := &http.Server{
		Addr:    c.String("addr"),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("dashboard listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			fmt.Println("Error:", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serveStopTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Error:", err)
	}
	return nil
}
