// Package server runs the http server which allows users to open websockets to play the game.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/jacobpatterson1549/mexican-train/db/user"
	"github.com/jacobpatterson1549/mexican-train/game"
	"github.com/jacobpatterson1549/mexican-train/server/log"
	"github.com/jacobpatterson1549/mexican-train/server/runner"
)

type (
	// Server runs the site.
	Server struct {
		wg          sync.WaitGroup
		log         log.Logger
		lobby       Lobby
		once        runner.Runner
		HTTPServer  *http.Server
		HTTPSServer *http.Server
		Config
	}

	// Tokenizer creates and reads tokens from http traffic.
	Tokenizer interface {
		Create(username string, points int) (string, error)
		ReadUsername(tokenString string) (string, error)
	}

	// UserDao contains CRUD operations for user-related information.
	UserDao interface {
		Create(ctx context.Context, u user.User) error
		Read(ctx context.Context, u user.User) (*user.User, error)
		UpdatePassword(ctx context.Context, u user.User, newP string) error
		Delete(ctx context.Context, u user.User) error
	}

	// Lobby is the place users can create, join, and participate in games.
	Lobby interface {
		Run(ctx context.Context, wg *sync.WaitGroup)
		AddUser(username string, w http.ResponseWriter, r *http.Request) error
		RemoveUser(username string)
	}

	// History reads the results of finished matches.
	History interface {
		Recent(ctx context.Context, n int) ([]game.Result, error)
		PlayerResults(ctx context.Context, name string, n int) ([]game.Result, error)
		Ping(ctx context.Context) error
	}
)

// Run the server asynchronously until it receives a shutdown signal.
// When the HTTP/HTTPS servers stop, errors are sent to the returned channel.
func (s *Server) Run(ctx context.Context) <-chan error {
	errC := make(chan error, 2)
	if err := s.once.Run(); err != nil {
		errC <- fmt.Errorf("running server: %w", err)
		return errC
	}
	ctx, cancelFunc := context.WithCancel(ctx)
	s.lobby.Run(ctx, &s.wg)
	s.HTTPSServer.RegisterOnShutdown(cancelFunc)
	s.runHTTPServer(errC)
	s.runHTTPSServer(errC)
	return errC
}

// runHTTPServer runs the http server asynchronously, adding the return error to the channel when done.
// The server is only run if the HTTP address is valid.
func (s *Server) runHTTPServer(errC chan<- error) {
	if !s.validHTTPAddr() {
		return
	}
	s.log.Printf("starting http server at http://127.0.0.1%v", s.HTTPServer.Addr)
	go func() {
		errC <- s.HTTPServer.ListenAndServe()
	}()
}

// runHTTPSServer runs the https server asynchronously, adding the return error to the channel when done.
// TLS is only used when the http server is run to redirect to it.
func (s *Server) runHTTPSServer(errC chan<- error) {
	s.log.Printf("starting https server at https://127.0.0.1%v", s.HTTPSServer.Addr)
	go func() {
		switch {
		case s.validHTTPAddr():
			errC <- s.HTTPSServer.ListenAndServeTLS(s.TLSCertFile, s.TLSKeyFile)
		default:
			if len(s.TLSCertFile) != 0 || len(s.TLSKeyFile) != 0 {
				s.log.Printf("Ignoring certificate files because the http port is not set, https is terminated by a proxy.")
			}
			errC <- s.HTTPSServer.ListenAndServe()
		}
	}()
}

// Stop asks the server to shutdown and waits for the shutdown to complete.
// An error is returned if the server if the context times out.
func (s *Server) Stop(ctx context.Context) error {
	if !s.once.IsRunning() {
		return fmt.Errorf("server not running")
	}
	defer s.once.Finish()
	ctx, cancelFunc := context.WithTimeout(ctx, s.StopDur)
	defer cancelFunc()
	httpsShutdownErr := s.HTTPSServer.Shutdown(ctx)
	httpShutdownErr := s.HTTPServer.Shutdown(ctx)
	switch {
	case httpsShutdownErr != nil:
		return httpsShutdownErr
	case httpShutdownErr != nil:
		return httpShutdownErr
	}
	s.wg.Wait()
	return nil
}

// IsClosed determines if the error is the expected error returned when the server is stopped.
func IsClosed(err error) bool {
	return errors.Is(err, http.ErrServerClosed)
}
