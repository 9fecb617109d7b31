// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package service runs the search provider service: it connects to the
// session bus, registers a provider per installed editor, acquires the bus
// name and serves calls until told to stop.
package service

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/tombee/code-search-provider/internal/bus"
	"github.com/tombee/code-search-provider/internal/log"
	"github.com/tombee/code-search-provider/internal/providers"
	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

// ErrConnectionLost is the cause of the error returned by Run when the bus
// connection goes away while serving.
var ErrConnectionLost = errors.New("lost connection to the session bus")

// Bus is the connection the runtime serves on.
type Bus interface {
	Exporter
	RequestName(name string) error
	Requests() <-chan *bus.Request
	Done() <-chan struct{}
	Close() error
}

// Connector opens the bus connection.
type Connector func(ctx context.Context) (Bus, error)

// State is a phase of the runtime's life.
type State int

const (
	StateConnecting State = iota
	StateRegistering
	StateAcquiringName
	StateServing
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateRegistering:
		return "registering"
	case StateAcquiringName:
		return "acquiring_name"
	case StateServing:
		return "serving"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Runtime drives the service through its states.
type Runtime struct {
	Connector Connector

	// Signals delivers termination signals. A nil channel never fires.
	Signals <-chan os.Signal

	Apps       AppLookup
	Providers  []providers.Definition
	ConfigRoot string

	// BusName defaults to providers.BusName.
	BusName string

	Logger *slog.Logger

	// OnTransition, if set, is called on every state change.
	OnTransition func(from, to State)

	state State
}

// State returns the current state.
func (r *Runtime) State() State {
	return r.state
}

// Run starts the service and blocks until it stops. It returns nil when
// stopped by a signal or by ctx, and an error when startup fails or the
// connection is lost.
func (r *Runtime) Run(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = log.WithComponent(logger, "runtime")
	busName := r.BusName
	if busName == "" {
		busName = providers.BusName
	}

	r.state = StateConnecting
	logger.Debug("connecting to session bus")
	conn, err := r.Connector(ctx)
	if err != nil {
		r.transition(logger, StateStopped)
		return err
	}

	r.transition(logger, StateRegistering)
	registered, err := Activate(r.Providers, r.ConfigRoot, r.Apps, conn, logger)
	if err != nil {
		r.stop(logger, conn)
		return err
	}

	r.transition(logger, StateAcquiringName)
	if err := conn.RequestName(busName); err != nil {
		r.stop(logger, conn)
		return err
	}
	logger.Info("acquired bus name",
		slog.String("name", busName),
		log.Int("providers", len(registered)))

	r.transition(logger, StateServing)
	err = r.serve(ctx, logger, conn)

	r.transition(logger, StateShuttingDown)
	r.stop(logger, conn)
	return err
}

func (r *Runtime) serve(ctx context.Context, logger *slog.Logger, conn Bus) error {
	for {
		// A pending stop wins over pending requests.
		select {
		case sig := <-r.Signals:
			logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
			return nil
		case <-ctx.Done():
			logger.Info("context cancelled, shutting down")
			return nil
		default:
		}

		select {
		case req := <-conn.Requests():
			r.dispatch(logger, req)
		case sig := <-r.Signals:
			logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
			return nil
		case <-ctx.Done():
			logger.Info("context cancelled, shutting down")
			return nil
		case <-conn.Done():
			if ctx.Err() != nil {
				return nil
			}
			return &providererrors.ConnectionError{Cause: ErrConnectionLost}
		}
	}
}

// dispatch serves one request. Failures are logged and do not stop the
// service.
func (r *Runtime) dispatch(logger *slog.Logger, req *bus.Request) {
	if err := req.Serve(); err != nil {
		derr := &providererrors.DispatchError{
			Path:      string(req.Path),
			Interface: req.Interface,
			Member:    req.Member,
			Cause:     err,
		}
		logger.Error("request failed",
			log.String(log.ObjectPathKey, string(req.Path)),
			slog.String("cause_type", providererrors.TypeOf(err)),
			log.Error(derr))
		return
	}
	logger.Debug("served request", slog.String("request", req.String()))
}

func (r *Runtime) stop(logger *slog.Logger, conn Bus) {
	if err := conn.Close(); err != nil {
		logger.Debug("closing bus connection", log.Error(err))
	}
	r.transition(logger, StateStopped)
}

func (r *Runtime) transition(logger *slog.Logger, to State) {
	from := r.state
	r.state = to
	logger.Debug("state change", slog.String("from", from.String()), slog.String(log.StateKey, to.String()))
	if r.OnTransition != nil {
		r.OnTransition(from, to)
	}
}
