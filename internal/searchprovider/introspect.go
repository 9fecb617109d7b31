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

package searchprovider

import (
	"github.com/godbus/dbus/v5/introspect"
)

// IntrospectNode describes the interfaces of a provider object.
func IntrospectNode() *introspect.Node {
	in := func(name, typ string) introspect.Arg { return introspect.Arg{Name: name, Type: typ, Direction: "in"} }
	out := func(name, typ string) introspect.Arg { return introspect.Arg{Name: name, Type: typ, Direction: "out"} }

	return &introspect.Node{
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name: Interface,
				Methods: []introspect.Method{
					{Name: "GetInitialResultSet", Args: []introspect.Arg{in("terms", "as"), out("results", "as")}},
					{Name: "GetSubsearchResultSet", Args: []introspect.Arg{in("previous_results", "as"), in("terms", "as"), out("results", "as")}},
					{Name: "GetResultMetas", Args: []introspect.Arg{in("identifiers", "as"), out("metas", "aa{sv}")}},
					{Name: "ActivateResult", Args: []introspect.Arg{in("identifier", "s"), in("terms", "as"), in("timestamp", "u")}},
					{Name: "LaunchSearch", Args: []introspect.Arg{in("terms", "as"), in("timestamp", "u")}},
				},
			},
		},
	}
}

// Introspectable returns the org.freedesktop.DBus.Introspectable
// implementation for a provider object.
func Introspectable() introspect.Introspectable {
	return introspect.NewIntrospectable(IntrospectNode())
}
