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
	"strings"
	"sync"

	"github.com/xfali/neve-ioc/errors"
	"github.com/xfali/neve-ioc/reflection"
	"github.com/xfali/xlog"
)

// ResolveFunc 为构造方法的每个参数提供对象
type ResolveFunc func(t reflect.Type) (reflect.Value, error)

type SelectPolicy int

const (
	// SelectFirst picks the first declared constructor.
	SelectFirst SelectPolicy = iota
	// SelectGreediest picks the constructor with the most parameters,
	// ties go to the earliest declared one.
	SelectGreediest
)

func (p SelectPolicy) String() string {
	switch p {
	case SelectFirst:
		return "first"
	case SelectGreediest:
		return "greediest"
	}
	return fmt.Sprintf("SelectPolicy(%d)", int(p))
}

func ParseSelectPolicy(s string) (SelectPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return SelectFirst, nil
	case "greediest", "greedy":
		return SelectGreediest, nil
	}
	return SelectFirst, fmt.Errorf("unknown constructor select policy: %q", s)
}

type Instantiator interface {
	// 注册构造方法，返回值类型即为构造的类型
	RegisterConstructor(fn interface{}) error

	// 类型的所有显式构造方法，按注册顺序
	Constructors(t reflect.Type) []*Constructor

	// 所有存在显式构造方法的类型，按首次注册顺序
	Types() []reflect.Type

	// 按策略选出的构造方法
	Descriptor(t reflect.Type) (*Constructor, error)

	// 解析参数并构造对象
	Construct(t reflect.Type, resolve ResolveFunc) (reflect.Value, error)

	// 解析参数并调用任意方法
	Call(fn interface{}, resolve ResolveFunc) ([]reflect.Value, error)
}

type Opt func(*defaultInstantiator)

type defaultInstantiator struct {
	logger   xlog.Logger
	policy   SelectPolicy
	implicit bool

	ctors   map[reflect.Type][]*Constructor
	types   []reflect.Type
	cache   map[reflect.Type]*Constructor
	ctorMux sync.RWMutex
}

func New(opts ...Opt) *defaultInstantiator {
	ret := &defaultInstantiator{
		logger:   xlog.GetLogger(),
		policy:   SelectFirst,
		implicit: true,
		ctors:    map[reflect.Type][]*Constructor{},
		cache:    map[reflect.Type]*Constructor{},
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func OptSetLogger(v xlog.Logger) Opt {
	return func(i *defaultInstantiator) {
		i.logger = v
	}
}

func OptSetSelectPolicy(policy SelectPolicy) Opt {
	return func(i *defaultInstantiator) {
		i.policy = policy
	}
}

// 无显式构造方法时，是否允许struct及struct指针使用零值构造
func OptSetImplicitConstructor(flag bool) Opt {
	return func(i *defaultInstantiator) {
		i.implicit = flag
	}
}

func (i *defaultInstantiator) RegisterConstructor(fn interface{}) error {
	c, err := NewConstructor(fn)
	if err != nil {
		return err
	}

	i.ctorMux.Lock()
	defer i.ctorMux.Unlock()

	if _, ok := i.ctors[c.out]; !ok {
		i.types = append(i.types, c.out)
	}
	i.ctors[c.out] = append(i.ctors[c.out], c)
	delete(i.cache, c.out)

	i.logger.Debugf("Register constructor %s for [%s] with %d param(s)\n",
		c.name, reflection.GetTypeName(c.out), len(c.params))
	return nil
}

func (i *defaultInstantiator) Constructors(t reflect.Type) []*Constructor {
	i.ctorMux.RLock()
	defer i.ctorMux.RUnlock()

	ctors := i.ctors[t]
	if len(ctors) == 0 {
		return nil
	}
	ret := make([]*Constructor, len(ctors))
	copy(ret, ctors)
	return ret
}

func (i *defaultInstantiator) Types() []reflect.Type {
	i.ctorMux.RLock()
	defer i.ctorMux.RUnlock()

	ret := make([]reflect.Type, len(i.types))
	copy(ret, i.types)
	return ret
}

func (i *defaultInstantiator) Descriptor(t reflect.Type) (*Constructor, error) {
	i.ctorMux.RLock()
	c, ok := i.cache[t]
	ctors := i.ctors[t]
	i.ctorMux.RUnlock()
	if ok {
		return c, nil
	}

	c = i.selectConstructor(t, ctors)
	if c == nil {
		return nil, &errors.NoConstructorError{Type: t}
	}

	i.ctorMux.Lock()
	// 期间如有新的构造方法注册，不写入过期的缓存
	if len(i.ctors[t]) == len(ctors) {
		i.cache[t] = c
	}
	i.ctorMux.Unlock()
	return c, nil
}

func (i *defaultInstantiator) selectConstructor(t reflect.Type, ctors []*Constructor) *Constructor {
	if len(ctors) == 0 {
		if i.implicit && reflection.IsStructLike(t) {
			return implicitConstructor(t)
		}
		return nil
	}
	switch i.policy {
	case SelectGreediest:
		ret := ctors[0]
		for _, c := range ctors[1:] {
			if len(c.params) > len(ret.params) {
				ret = c
			}
		}
		return ret
	default:
		return ctors[0]
	}
}

func (i *defaultInstantiator) Construct(t reflect.Type, resolve ResolveFunc) (reflect.Value, error) {
	if reflection.IsAbstract(t) {
		return reflect.Value{}, &errors.NoConstructorError{Type: t}
	}
	c, err := i.Descriptor(t)
	if err != nil {
		return reflect.Value{}, err
	}

	args, err := resolveArgs(c.params, resolve)
	if err != nil {
		return reflect.Value{}, err
	}
	return c.invoke(args)
}

func (i *defaultInstantiator) Call(fn interface{}, resolve ResolveFunc) ([]reflect.Value, error) {
	if fn == nil {
		return nil, fmt.Errorf("function is nil")
	}
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("param is not a function: %s", ft.String())
	}
	if ft.IsVariadic() {
		return nil, fmt.Errorf("function %s: variadic parameters are not supported", ft.String())
	}
	if fv.IsNil() {
		return nil, fmt.Errorf("function %s is nil", ft.String())
	}

	params := make([]reflect.Type, ft.NumIn())
	for n := range params {
		params[n] = ft.In(n)
	}
	args, err := resolveArgs(params, resolve)
	if err != nil {
		return nil, err
	}

	name := funcName(fv)
	results, err := call(name, fv, args)
	if err != nil {
		return nil, err
	}
	if n := len(results); n > 0 && ft.Out(n-1) == reflection.ErrorType {
		if !results[n-1].IsNil() {
			return results, results[n-1].Interface().(error)
		}
	}
	return results, nil
}

func call(name string, fv reflect.Value, args []reflect.Value) (results []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = panicError(name, r)
		}
	}()
	return fv.Call(args), nil
}

func resolveArgs(params []reflect.Type, resolve ResolveFunc) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(params))
	for n, pt := range params {
		v, err := resolve(pt)
		if err != nil {
			return nil, err
		}
		if !v.IsValid() {
			v = reflect.Zero(pt)
		}
		args[n] = v
	}
	return args, nil
}
