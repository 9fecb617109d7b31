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

// Package bus connects to the D-Bus session bus and exports objects whose
// method calls are served one at a time by the caller's loop.
package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/tombee/code-search-provider/internal/log"
	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

// ErrClosed is returned to callers whose request was pending when the
// connection was closed.
var ErrClosed = errors.New("bus connection closed")

// Conn is a session bus connection with its own object table.
type Conn struct {
	conn      *dbus.Conn
	objects   *objectTable
	requests  chan *Request
	closed    chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

func newConn(logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Conn{
		requests: make(chan *Request),
		closed:   make(chan struct{}),
		logger:   log.WithComponent(logger, "bus"),
	}
	c.objects = newObjectTable(c.submit, c.logger)
	return c
}

// Connect opens a private connection to the session bus. Cancelling ctx
// closes the connection.
func Connect(ctx context.Context, logger *slog.Logger) (*Conn, error) {
	c := newConn(logger)

	conn, err := dbus.ConnectSessionBus(dbus.WithHandler(c.objects), dbus.WithContext(ctx))
	if err != nil {
		return nil, &providererrors.ConnectionError{Cause: err}
	}
	c.conn = conn

	names := conn.Names()
	if len(names) > 0 {
		c.logger.Debug("connected to session bus", slog.String("unique_name", names[0]))
	}
	return c, nil
}

// Export makes the methods of obj callable at path under iface. Several
// interfaces may be exported at one path, but each only once.
func (c *Conn) Export(path dbus.ObjectPath, iface string, obj interface{}) error {
	return c.objects.export(path, iface, obj)
}

// RequestName asks the bus for name without queueing. Anything but primary
// ownership is an error.
func (c *Conn) RequestName(name string) error {
	reply, err := c.conn.RequestName(name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return &providererrors.NameAcquisitionError{Name: name, Reason: "request failed", Cause: err}
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return &providererrors.NameAcquisitionError{Name: name, Reason: replyReason(reply)}
	}
	return nil
}

func replyReason(reply dbus.RequestNameReply) string {
	switch reply {
	case dbus.RequestNameReplyExists:
		return "name is owned by another connection"
	case dbus.RequestNameReplyInQueue:
		return "queued behind the current owner"
	case dbus.RequestNameReplyAlreadyOwner:
		return "name is already owned by this connection"
	default:
		return fmt.Sprintf("unexpected reply %d", reply)
	}
}

// Requests delivers method calls on exported objects. Each request must be
// served with Request.Serve.
func (c *Conn) Requests() <-chan *Request {
	return c.requests
}

// Done is closed when the connection to the bus is lost or closed.
func (c *Conn) Done() <-chan struct{} {
	if c.conn == nil {
		return c.closed
	}
	return c.conn.Context().Done()
}

// Close fails pending requests and closes the connection.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// submit hands req to the loop reading Requests and waits for the result.
func (c *Conn) submit(req *Request) ([]interface{}, error) {
	select {
	case c.requests <- req:
	case <-c.closed:
		return nil, ErrClosed
	}

	select {
	case <-req.Done():
		return req.Result()
	case <-c.closed:
		return nil, ErrClosed
	}
}
