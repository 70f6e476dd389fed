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
	"fmt"
	"reflect"

	"github.com/xfali/neve-ioc/errors"
	"github.com/xfali/neve-ioc/injector"
	"github.com/xfali/neve-ioc/reflection"
	"github.com/xfali/neve-utils/neverror"
)

// Key returns the registration key of T. Key[EmailService]() is the key of
// the interface itself, not of a value implementing it.
func Key[T any]() reflect.Type {
	return reflection.TypeOf[T]()
}

func Singleton[T any](c *Container, instance T) {
	c.RegisterSingleton(Key[T](), instance)
}

func Factory[T any](c *Container, factory func() T) {
	c.RegisterFactory(Key[T](), func() (interface{}, error) {
		return factory(), nil
	})
}

func FactoryE[T any](c *Container, factory func() (T, error)) {
	c.RegisterFactory(Key[T](), func() (interface{}, error) {
		return factory()
	})
}

// BindTo redirects resolution of I to C.
func BindTo[I any, C any](c *Container) {
	c.Bind(Key[I](), Key[C]())
}

// Constructor registers fn as a constructor of T. fn must build exactly T.
func Constructor[T any](c *Container, fn interface{}) error {
	ctor, err := injector.NewConstructor(fn)
	if err != nil {
		return err
	}
	if ctor.Type() != Key[T]() {
		return fmt.Errorf("constructor %s builds %s, not %s",
			ctor.Name(), reflection.GetShortName(ctor.Type()), reflection.GetShortName(Key[T]()))
	}
	return c.RegisterConstructor(fn)
}

func IsRegistered[T any](c *Container) bool {
	return c.IsRegistered(Key[T]())
}

func Resolve[T any](c *Container) (T, error) {
	var zero T
	o, err := c.Resolve(Key[T]())
	if err != nil {
		return zero, err
	}
	if o == nil {
		return zero, nil
	}
	ret, ok := o.(T)
	if !ok {
		return zero, &errors.TypeMismatchError{Key: Key[T](), Actual: reflect.TypeOf(o)}
	}
	return ret, nil
}

// MustResolve panics if T cannot be resolved.
func MustResolve[T any](c *Container) T {
	ret, err := Resolve[T](c)
	if err != nil {
		neverror.PanicError(err)
	}
	return ret
}
