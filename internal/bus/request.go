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

package bus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Request is a method call waiting to be served by the service loop.
//
// The connection's goroutine that received the call blocks in Wait until
// the loop calls Serve, or until the connection is closed.
type Request struct {
	Path      dbus.ObjectPath
	Interface string
	Member    string

	call   func() ([]interface{}, error)
	done   chan struct{}
	result []interface{}
	err    error
}

// NewRequest returns a request that runs call when served.
func NewRequest(path dbus.ObjectPath, iface, member string, call func() ([]interface{}, error)) *Request {
	return &Request{
		Path:      path,
		Interface: iface,
		Member:    member,
		call:      call,
		done:      make(chan struct{}),
	}
}

// Serve runs the call and hands its result to the waiting caller. A panic
// in the call is recovered and returned as an error. Serve must be called
// at most once.
func (r *Request) Serve() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in %s.%s: %v", r.Interface, r.Member, p)
			r.result, r.err = nil, err
		}
		close(r.done)
	}()

	r.result, r.err = r.call()
	return r.err
}

// Done is closed once the request has been served.
func (r *Request) Done() <-chan struct{} {
	return r.done
}

// Result returns the values and error of a served request.
func (r *Request) Result() ([]interface{}, error) {
	return r.result, r.err
}

func (r *Request) String() string {
	return fmt.Sprintf("%s %s.%s", r.Path, r.Interface, r.Member)
}
