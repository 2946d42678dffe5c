// Package main starts the server after configuring it from flags, environment variables, or a config file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacobpatterson1549/mexican-train/server"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// main configures and runs the server.
func main() {
	cmd := newRootCommand(os.Stdout, godotenv.Load)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run creates the server from the flags and runs it until it is interrupted or terminated.
func run(ctx context.Context, m mainFlags, out io.Writer) error {
	log, err := newLogger(out, m.logLevel)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := m.newComponents(ctx, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer c.close(log)
	if err := runServer(ctx, c.server, log); err != nil {
		return fmt.Errorf("running server: %w", err)
	}
	log.Info("server run stopped successfully")
	return nil
}

// runServer runs the server until it is interrupted or terminated.
func runServer(ctx context.Context, s *server.Server, log *logrus.Logger) error {
	done := make(chan os.Signal, 2)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(done)
	errC := s.Run(ctx)
	select { // BLOCKING
	case err := <-errC:
		switch {
		case server.IsClosed(err):
			log.Info("server shutdown triggered")
		default:
			log.WithError(err).Error("server stopped unexpectedly")
		}
	case sig := <-done:
		log.WithField("signal", sig).Info("handled signal")
	}
	if err := s.Stop(ctx); err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}
	return nil
}
