/*
 * Copyright 2024 Xiongfa Li.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package bean

import (
	"reflect"
	"strings"

	"github.com/xfali/neve-ioc/reflection"
)

type InterfacePair struct {
	Interface      reflect.Type
	Implementation reflect.Type
}

// Registrations is a point-in-time view of a Registry, in registration order.
type Registrations struct {
	Singletons []reflect.Type
	Factories  []reflect.Type
	Interfaces []InterfacePair
}

func (r Registrations) Len() int {
	return len(r.Singletons) + len(r.Factories) + len(r.Interfaces)
}

func (r Registrations) String() string {
	buf := strings.Builder{}
	buf.WriteString("Singletons:\n")
	for _, k := range r.Singletons {
		buf.WriteString("  ")
		buf.WriteString(reflection.GetTypeName(k))
		buf.WriteString("\n")
	}
	buf.WriteString("Factories:\n")
	for _, k := range r.Factories {
		buf.WriteString("  ")
		buf.WriteString(reflection.GetTypeName(k))
		buf.WriteString("\n")
	}
	buf.WriteString("Interfaces:\n")
	for _, p := range r.Interfaces {
		buf.WriteString("  ")
		buf.WriteString(reflection.GetTypeName(p.Interface))
		buf.WriteString(" -> ")
		buf.WriteString(reflection.GetTypeName(p.Implementation))
		buf.WriteString("\n")
	}
	return buf.String()
}
