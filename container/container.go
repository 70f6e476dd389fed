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

// Package container resolves object graphs from registered bindings.
//
// Resolution of a key applies, first match wins:
//
//  1. a singleton binding: the registered instance
//  2. a factory binding: a fresh call of the factory
//  3. an interface binding: resolution of the implementation key
//  4. construction through the Instantiator, each constructor parameter
//     being resolved in turn
//
// An interface key without any binding is never constructed and fails with
// a ResolutionError. Every top-level Resolve tracks the keys in flight, so a
// dependency cycle fails with a CircularDependencyError.
package container

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/xfali/neve-ioc/bean"
	"github.com/xfali/neve-ioc/errors"
	"github.com/xfali/neve-ioc/injector"
	"github.com/xfali/neve-ioc/reflection"
	"github.com/xfali/xlog"
)

type Opt func(*Container)

type Container struct {
	id       string
	logger   xlog.Logger
	registry bean.Registry
	inst     injector.Instantiator
	instOpts []injector.Opt
}

func New(opts ...Opt) *Container {
	ret := &Container{
		id:     uuid.NewString(),
		logger: xlog.GetLogger(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.registry == nil {
		ret.registry = bean.NewRegistry(bean.OptRegistryLogger(ret.logger))
	}
	if ret.inst == nil {
		instOpts := append([]injector.Opt{injector.OptSetLogger(ret.logger)}, ret.instOpts...)
		ret.inst = injector.New(instOpts...)
	}
	ret.logger.Debugf("Container [%s] created\n", ret.id)
	return ret
}

func OptSetLogger(v xlog.Logger) Opt {
	return func(c *Container) {
		c.logger = v
	}
}

func OptSetID(id string) Opt {
	return func(c *Container) {
		if id != "" {
			c.id = id
		}
	}
}

func OptSetRegistry(registry bean.Registry) Opt {
	return func(c *Container) {
		c.registry = registry
	}
}

// OptSetInstantiator 设置后OptSetSelectPolicy及OptSetImplicitConstructor不再生效
func OptSetInstantiator(inst injector.Instantiator) Opt {
	return func(c *Container) {
		c.inst = inst
	}
}

func OptSetSelectPolicy(policy injector.SelectPolicy) Opt {
	return func(c *Container) {
		c.instOpts = append(c.instOpts, injector.OptSetSelectPolicy(policy))
	}
}

func OptSetImplicitConstructor(flag bool) Opt {
	return func(c *Container) {
		c.instOpts = append(c.instOpts, injector.OptSetImplicitConstructor(flag))
	}
}

func (c *Container) ID() string {
	return c.id
}

func (c *Container) Registry() bean.Registry {
	return c.registry
}

func (c *Container) Instantiator() injector.Instantiator {
	return c.inst
}

func (c *Container) RegisterSingleton(key reflect.Type, instance interface{}) {
	c.registry.RegisterSingleton(key, instance)
}

func (c *Container) RegisterFactory(key reflect.Type, factory bean.FactoryFunc) {
	c.registry.RegisterFactory(key, factory)
}

func (c *Container) Bind(interfaceKey, implementationKey reflect.Type) {
	c.registry.Bind(interfaceKey, implementationKey)
}

// RegisterConstructor declares fn as a constructor of its first result type.
// Its parameters are resolved from the container when the type is built.
func (c *Container) RegisterConstructor(fn interface{}) error {
	return c.inst.RegisterConstructor(fn)
}

func (c *Container) IsRegistered(key reflect.Type) bool {
	return c.registry.IsRegistered(key)
}

func (c *Container) ListRegistrations() bean.Registrations {
	return c.registry.ListRegistrations()
}

func (c *Container) Resolve(key reflect.Type) (interface{}, error) {
	v, err := c.ResolveValue(key)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// ResolveValue is Resolve without leaving reflect.
func (c *Container) ResolveValue(key reflect.Type) (reflect.Value, error) {
	if key == nil {
		return reflect.Value{}, fmt.Errorf("container [%s]: resolve key is nil", c.id)
	}
	v, err := c.resolve(key, &resolution{})
	if err != nil {
		c.logger.Debugf("Container [%s] resolve [%s] failed: %v\n", c.id, reflection.GetTypeName(key), err)
		return reflect.Value{}, err
	}
	return v, nil
}

// Invoke calls fn with every parameter resolved from the container.
// A non-nil trailing error result of fn is returned.
func (c *Container) Invoke(fn interface{}) error {
	r := &resolution{}
	_, err := c.inst.Call(fn, func(t reflect.Type) (reflect.Value, error) {
		return c.resolve(t, r)
	})
	return err
}

func (c *Container) resolve(key reflect.Type, r *resolution) (reflect.Value, error) {
	if err := r.enter(key); err != nil {
		return reflect.Value{}, err
	}
	defer r.leave()

	v, err := c.resolveBinding(key, r)
	if err != nil {
		return reflect.Value{}, &errors.ResolutionError{Key: key, Err: err}
	}
	return v, nil
}

func (c *Container) resolveBinding(key reflect.Type, r *resolution) (reflect.Value, error) {
	b, err := c.registry.Lookup(key)
	if err != nil {
		if reflection.IsAbstract(key) {
			return reflect.Value{}, err
		}
		return c.inst.Construct(key, func(t reflect.Type) (reflect.Value, error) {
			return c.resolve(t, r)
		})
	}

	switch v := b.(type) {
	case *bean.SingletonBinding:
		return assign(key, v.Instance())
	case *bean.FactoryBinding:
		o, err := v.Create()
		if err != nil {
			return reflect.Value{}, &errors.ConstructionError{Type: key, Cause: err}
		}
		return assign(key, o)
	case *bean.InterfaceBinding:
		iv, err := c.resolve(v.Implementation(), r)
		if err != nil {
			return reflect.Value{}, err
		}
		return convert(key, iv)
	}
	return reflect.Value{}, fmt.Errorf("unsupported binding kind %s of %s", b.Kind(), reflection.GetShortName(key))
}

func assign(key reflect.Type, o interface{}) (reflect.Value, error) {
	if o == nil {
		if reflection.IsNillable(key) {
			return reflect.Zero(key), nil
		}
		return reflect.Value{}, &errors.TypeMismatchError{Key: key}
	}
	return convert(key, reflect.ValueOf(o))
}

func convert(key reflect.Type, v reflect.Value) (reflect.Value, error) {
	if !v.IsValid() {
		return assign(key, nil)
	}
	// 接口值按其动态类型判断
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return assign(key, nil)
		}
		v = v.Elem()
	}
	vt := v.Type()
	if vt == key {
		return v, nil
	}
	if !vt.AssignableTo(key) {
		return reflect.Value{}, &errors.TypeMismatchError{Key: key, Actual: vt}
	}
	ret := reflect.New(key).Elem()
	ret.Set(v)
	return ret, nil
}
