package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/loykin/vmhuntr"
	"github.com/loykin/vmhuntr/internal/logger"
	"github.com/loykin/vmhuntr/pkg/client"
)

// command implements the CLI verbs. Remote verbs talk to a daemon through
// pkg/client; serve runs the daemon in-process.
type command struct{}

// Serve runs the daemon until SIGINT/SIGTERM.
func (command) Serve(flags ServeFlags) error {
	// Optional .env: ignore absence, fail on parse/permission problems.
	if flags.EnvFile != "" {
		if err := vmhuntr.LoadEnvFile(flags.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", flags.EnvFile, err)
		}
	}

	log := logger.Config{Dir: flags.LogDir}.New("vmhuntr", slog.LevelInfo)

	h := vmhuntr.NewWithOptions(vmhuntr.Options{
		ResultFile: flags.ResultFile,
		Logger:     log,
	})

	if err := vmhuntr.RegisterMetricsDefault(); err != nil {
		log.Warn("failed to register metrics", "error", err)
	}
	if flags.MetricsListen != "" {
		go func() {
			if err := vmhuntr.ServeMetrics(flags.MetricsListen); err != nil {
				log.Error("metrics server error", "error", err)
			}
		}()
	}

	server, err := vmhuntr.NewHTTPServer(flags.Listen, flags.BasePath, h)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}
	log.Info("vmhuntr daemon started", "listen", flags.Listen, "base_path", flags.BasePath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := h.Shutdown(ctx); err != nil {
		log.Warn("hunt loop did not stop cleanly", "error", err)
	}
	return server.Close()
}

func (command) Start(flags GlobalFlags) error {
	c, ctx, cancel := newClient(flags)
	defer cancel()
	if err := c.Start(ctx); err != nil {
		return err
	}
	fmt.Println("Hunt started")
	return nil
}

func (command) Stop(flags GlobalFlags) error {
	c, ctx, cancel := newClient(flags)
	defer cancel()
	if err := c.Stop(ctx); err != nil {
		return err
	}
	fmt.Println("Stop requested")
	return nil
}

func (command) Status(flags GlobalFlags) error {
	c, ctx, cancel := newClient(flags)
	defer cancel()
	st, err := c.Status(ctx)
	if err != nil {
		return daemonUnreachable(flags, err)
	}
	state := "idle"
	if st.IsRunning {
		state = "running"
	}
	fmt.Printf("State:    %s\n", state)
	fmt.Printf("Attempt:  %d\n", st.CurrentAttempt)
	fmt.Printf("Status:   %s\n", st.LastStatus)
	fmt.Printf("Logs:     %d\n", st.LogCount)
	if st.VMCreated && st.VMDetails != nil {
		fmt.Printf("Instance: %s (%s, %s)\n", st.VMDetails.DisplayName, st.VMDetails.ID, st.VMDetails.AvailabilityDomain)
	}
	return nil
}

func (command) Logs(flags GlobalFlags, logsFlags LogsFlags) error {
	c, ctx, cancel := newClient(flags)
	defer cancel()
	lr, err := c.Logs(ctx, logsFlags.Since)
	if err != nil {
		return daemonUnreachable(flags, err)
	}
	for _, e := range lr.Logs {
		fmt.Printf("[%s] [%s] %s\n", e.Timestamp, e.Level, e.Message)
	}
	return nil
}

func (command) Config(flags GlobalFlags) error {
	c, ctx, cancel := newClient(flags)
	defer cancel()
	cr, err := c.ConfigStatus(ctx)
	if err != nil {
		return daemonUnreachable(flags, err)
	}
	keys := make([]string, 0, len(cr.Configured))
	for k := range cr.Configured {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		mark := "missing"
		if cr.Configured[k] {
			mark = "set"
		}
		fmt.Printf("%-16s %s\n", k, mark)
	}
	return nil
}

func newClient(flags GlobalFlags) (*client.Client, context.Context, context.CancelFunc) {
	c := client.New(client.Config{BaseURL: flags.APIUrl, Timeout: flags.APITimeout})
	ctx, cancel := context.WithTimeout(context.Background(), flags.APITimeout)
	return c, ctx, cancel
}

func daemonUnreachable(flags GlobalFlags, err error) error {
	return fmt.Errorf("daemon not reachable at %s - start it with 'vmhuntr serve' (%w)", flags.APIUrl, err)
}
