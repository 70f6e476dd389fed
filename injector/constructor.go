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

package injector

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/xfali/neve-ioc/errors"
	"github.com/xfali/neve-ioc/reflection"
)

// Constructor describes one way to build a type: the function to call and
// the ordered list of parameter types it depends on.
type Constructor struct {
	name     string
	fn       reflect.Value
	out      reflect.Type
	params   []reflect.Type
	withErr  bool
	implicit bool
}

func verifyConstructor(ft reflect.Type) error {
	if ft.Kind() != reflect.Func {
		return fmt.Errorf("constructor must be a function, got %s", ft.String())
	}
	if ft.IsVariadic() {
		return fmt.Errorf("constructor %s: variadic parameters are not supported", ft.String())
	}
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != reflection.ErrorType {
			return fmt.Errorf("constructor %s: 2nd return value must be error", ft.String())
		}
	default:
		return fmt.Errorf("constructor %s must return TYPE or (TYPE, error)", ft.String())
	}
	if ft.Out(0) == reflection.ErrorType {
		return fmt.Errorf("constructor %s: 1st return value must not be error", ft.String())
	}
	if reflection.IsAbstract(ft.Out(0)) {
		return fmt.Errorf("constructor %s: interface %s is never constructed, register the implementation and use Bind, or use Factory",
			ft.String(), ft.Out(0).String())
	}
	return nil
}

// NewConstructor 解析构造方法，类型为func(Type1, Type2...TypeN) TYPE 或 func(...) (TYPE, error)
func NewConstructor(fn interface{}) (*Constructor, error) {
	if fn == nil {
		return nil, fmt.Errorf("constructor is nil")
	}
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if err := verifyConstructor(ft); err != nil {
		return nil, err
	}
	if fv.IsNil() {
		return nil, fmt.Errorf("constructor %s is nil", ft.String())
	}
	ret := &Constructor{
		name:    funcName(fv),
		fn:      fv,
		out:     ft.Out(0),
		withErr: ft.NumOut() == 2,
	}
	for i := 0; i < ft.NumIn(); i++ {
		ret.params = append(ret.params, ft.In(i))
	}
	return ret, nil
}

// implicitConstructor 无显式构造方法的struct（指针）使用零值构造
func implicitConstructor(t reflect.Type) *Constructor {
	ret := &Constructor{
		name:     "new(" + reflection.GetShortName(t) + ")",
		out:      t,
		implicit: true,
	}
	ft := reflect.FuncOf(nil, []reflect.Type{t}, false)
	ret.fn = reflect.MakeFunc(ft, func(args []reflect.Value) []reflect.Value {
		if t.Kind() == reflect.Ptr {
			return []reflect.Value{reflect.New(t.Elem())}
		}
		return []reflect.Value{reflect.New(t).Elem()}
	})
	return ret
}

func funcName(fv reflect.Value) string {
	if f := runtime.FuncForPC(fv.Pointer()); f != nil {
		return f.Name()
	}
	return fv.Type().String()
}

func (c *Constructor) Name() string {
	return c.name
}

// Type returns the type the constructor builds.
func (c *Constructor) Type() reflect.Type {
	return c.out
}

func (c *Constructor) Params() []reflect.Type {
	ret := make([]reflect.Type, len(c.params))
	copy(ret, c.params)
	return ret
}

func (c *Constructor) NumParams() int {
	return len(c.params)
}

func (c *Constructor) IsImplicit() bool {
	return c.implicit
}

func (c *Constructor) invoke(args []reflect.Value) (v reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = reflect.Value{}
			err = &errors.ConstructionError{Type: c.out, Cause: panicError(c.name, r)}
		}
	}()

	results := c.fn.Call(args)
	if c.withErr && !results[1].IsNil() {
		return reflect.Value{}, &errors.ConstructionError{
			Type:  c.out,
			Cause: results[1].Interface().(error),
		}
	}
	return results[0], nil
}

func panicError(name string, r interface{}) error {
	if e, ok := r.(error); ok {
		return fmt.Errorf("%s panic: %w", name, e)
	}
	return fmt.Errorf("%s panic: %v", name, r)
}
