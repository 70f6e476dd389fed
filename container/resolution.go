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

package container

import (
	"reflect"

	"github.com/xfali/neve-ioc/errors"
)

// resolution holds the keys in flight for one top-level call. It is never
// shared between goroutines.
type resolution struct {
	stack []reflect.Type
}

func (r *resolution) enter(t reflect.Type) error {
	for i, v := range r.stack {
		if v == t {
			chain := make([]reflect.Type, 0, len(r.stack)-i+1)
			chain = append(chain, r.stack[i:]...)
			chain = append(chain, t)
			return &errors.CircularDependencyError{Chain: chain}
		}
	}
	r.stack = append(r.stack, t)
	return nil
}

func (r *resolution) leave() {
	r.stack = r.stack[:len(r.stack)-1]
}
