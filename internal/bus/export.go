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
	"log/slog"
	"reflect"
	"sort"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/tombee/code-search-provider/internal/log"
	providererrors "github.com/tombee/code-search-provider/pkg/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// objectTable is the dbus.Handler of a connection. godbus looks objects up
// from its own goroutines, so the table is guarded by a lock.
type objectTable struct {
	mu      sync.RWMutex
	objects map[dbus.ObjectPath]*object
	submit  func(*Request) ([]interface{}, error)
	logger  *slog.Logger
}

type object struct {
	interfaces map[string]*exportedInterface
}

type exportedInterface struct {
	methods map[string]*exportedMethod
}

// exportedMethod adapts a Go method to godbus. Calls are not run directly:
// they are wrapped in a Request and submitted to the service loop.
type exportedMethod struct {
	path   dbus.ObjectPath
	iface  string
	name   string
	fn     reflect.Value
	submit func(*Request) ([]interface{}, error)
}

func newObjectTable(submit func(*Request) ([]interface{}, error), logger *slog.Logger) *objectTable {
	return &objectTable{
		objects: make(map[dbus.ObjectPath]*object),
		submit:  submit,
		logger:  logger,
	}
}

// export registers the exported methods of obj under path and iface.
// Only methods whose last result is an error are exported.
func (t *objectTable) export(path dbus.ObjectPath, iface string, obj interface{}) error {
	if !path.IsValid() {
		return &providererrors.ValidationError{
			Field:   "path",
			Message: fmt.Sprintf("invalid object path %q", path),
		}
	}
	if iface == "" {
		return &providererrors.ValidationError{Field: "interface", Message: "interface name is empty"}
	}

	methods := t.methodsOf(path, iface, obj)
	if len(methods) == 0 {
		return fmt.Errorf("%T has no methods to export on %s", obj, iface)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	o, ok := t.objects[path]
	if !ok {
		o = &object{interfaces: make(map[string]*exportedInterface)}
		t.objects[path] = o
	}
	if _, taken := o.interfaces[iface]; taken {
		return &providererrors.ValidationError{
			Field:   "path",
			Message: fmt.Sprintf("%s is already exported at %s", iface, path),
		}
	}
	o.interfaces[iface] = &exportedInterface{methods: methods}

	t.logger.Debug("exported object",
		log.String(log.ObjectPathKey, string(path)),
		slog.String("interface", iface),
		slog.Any("methods", sortedKeys(methods)))
	return nil
}

func (t *objectTable) methodsOf(path dbus.ObjectPath, iface string, obj interface{}) map[string]*exportedMethod {
	val := reflect.ValueOf(obj)
	typ := val.Type()

	methods := make(map[string]*exportedMethod)
	for i := 0; i < typ.NumMethod(); i++ {
		m := typ.Method(i)
		if !m.IsExported() {
			continue
		}
		fn := val.Method(i)
		ft := fn.Type()
		if ft.NumOut() == 0 || !ft.Out(ft.NumOut()-1).Implements(errorType) {
			continue
		}
		methods[m.Name] = &exportedMethod{
			path:   path,
			iface:  iface,
			name:   m.Name,
			fn:     fn,
			submit: t.submit,
		}
	}
	return methods
}

// LookupObject implements dbus.Handler.
func (t *objectTable) LookupObject(path dbus.ObjectPath) (dbus.ServerObject, bool) {
	t.mu.RLock()
	o, ok := t.objects[path]
	t.mu.RUnlock()
	if !ok {
		t.logger.Warn("call to unknown object", log.String(log.ObjectPathKey, string(path)))
		return nil, false
	}
	return o, true
}

// LookupInterface implements dbus.ServerObject.
func (o *object) LookupInterface(name string) (dbus.Interface, bool) {
	iface, ok := o.interfaces[name]
	if !ok {
		return nil, false
	}
	return iface, true
}

// LookupMethod implements dbus.Interface.
func (i *exportedInterface) LookupMethod(name string) (dbus.Method, bool) {
	m, ok := i.methods[name]
	if !ok {
		return nil, false
	}
	return m, true
}

// Call implements dbus.Method. It blocks until the service loop has served
// the call.
func (m *exportedMethod) Call(args ...interface{}) ([]interface{}, error) {
	req := NewRequest(m.path, m.iface, m.name, func() ([]interface{}, error) {
		return m.invoke(args)
	})
	return m.submit(req)
}

func (m *exportedMethod) invoke(args []interface{}) ([]interface{}, error) {
	// godbus decodes each argument into a pointer to a value of the type
	// reported by ArgumentValue.
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v := reflect.ValueOf(arg)
		if v.Kind() != reflect.Ptr || v.IsNil() {
			return nil, fmt.Errorf("argument %d of %s.%s: got %T, want a pointer", i, m.iface, m.name, arg)
		}
		in[i] = v.Elem()
	}

	out := m.fn.Call(in)
	last := out[len(out)-1]
	values := make([]interface{}, len(out)-1)
	for i, v := range out[:len(out)-1] {
		values[i] = v.Interface()
	}

	// A nil *dbus.Error stored in an error interface is not a nil error.
	if last.IsNil() {
		return values, nil
	}
	return values, last.Interface().(error)
}

// NumArguments implements dbus.Method.
func (m *exportedMethod) NumArguments() int {
	return m.fn.Type().NumIn()
}

// NumReturns implements dbus.Method.
func (m *exportedMethod) NumReturns() int {
	return m.fn.Type().NumOut() - 1
}

// ArgumentValue implements dbus.Method. godbus decodes the call's body
// into values of the returned types.
func (m *exportedMethod) ArgumentValue(position int) interface{} {
	return reflect.Zero(m.fn.Type().In(position)).Interface()
}

// ReturnValue implements dbus.Method.
func (m *exportedMethod) ReturnValue(position int) interface{} {
	return reflect.Zero(m.fn.Type().Out(position)).Interface()
}

func sortedKeys(methods map[string]*exportedMethod) []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
