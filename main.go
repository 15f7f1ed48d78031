package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"
)

// shutdownGrace is how long the server gets to exit after an interrupt.
const shutdownGrace = 2 * time.Second

type procConfig struct {
	Name string
	Args []string
	Dir  string
	Env  []string
}

var buildSteps = []procConfig{
	{
		Name: "build-ui-wasm",
		Args: []string{"go", "build", "-o", "ui/main.wasm", "./cmd/ui-wasm"},
		Env:  []string{"GOOS=js", "GOARCH=wasm"},
	},
	{
		Name: "copy-wasm-exec",
		Args: []string{"sh", "-c", `cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" ui/ 2>/dev/null || cp "$(go env GOROOT)/misc/wasm/wasm_exec.js" ui/`},
	},
}

var server = procConfig{
	Name: "ui-server",
	Args: []string{
		"go", "run", "./cmd/ui-server",
		"-config", "config.json",
		"-assets", "ui",
		"-templates", "ui/templates",
		"-content", "ui/content.yaml",
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runSteps(ctx, buildSteps); err != nil {
		fmt.Fprintf(os.Stderr, "folio build failed: %v\n", err)
		os.Exit(1)
	}
	if err := serve(ctx, server); err != nil {
		fmt.Fprintf(os.Stderr, "folio exited with error: %v\n", err)
		os.Exit(1)
	}
}

// runSteps runs each step to completion in order and stops at the first
// failure.
func runSteps(ctx context.Context, steps []procConfig) error {
	if len(steps) == 0 {
		return errors.New("no build steps configured")
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := command(ctx, step).Run(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%s: %w", step.Name, err)
		}
	}
	return nil
}

// serve runs the long-lived process until it exits or ctx is cancelled. On
// cancellation the process is interrupted and given shutdownGrace to exit;
// that exit is not an error.
func serve(ctx context.Context, cfg procConfig) error {
	cmd := command(ctx, cfg)
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = shutdownGrace
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s start: %w", cfg.Name, err)
	}
	if err := cmd.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("%s exited: %w", cfg.Name, err)
	}
	return nil
}

func command(ctx context.Context, cfg procConfig) *exec.Cmd {
	cmd := exec.CommandContext(ctx, cfg.Args[0], cfg.Args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Dir = cfg.Dir
	if len(cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), cfg.Env...)
	}
	return cmd
}
