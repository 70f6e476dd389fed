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
	"fmt"
	"reflect"
)

type Kind int

const (
	KindSingleton Kind = iota + 1
	KindFactory
	KindInterface
)

func (k Kind) String() string {
	switch k {
	case KindSingleton:
		return "singleton"
	case KindFactory:
		return "factory"
	case KindInterface:
		return "interface"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Binding interface {
	// 绑定类型
	Kind() Kind

	// 绑定的key
	Key() reflect.Type
}

// FactoryFunc 无参构造方法，每次解析都会调用
type FactoryFunc func() (interface{}, error)

type SingletonBinding struct {
	key      reflect.Type
	instance interface{}
}

func NewSingletonBinding(key reflect.Type, instance interface{}) *SingletonBinding {
	return &SingletonBinding{
		key:      key,
		instance: instance,
	}
}

func (b *SingletonBinding) Kind() Kind {
	return KindSingleton
}

func (b *SingletonBinding) Key() reflect.Type {
	return b.key
}

// Instance returns the registered object; the same value on every call.
func (b *SingletonBinding) Instance() interface{} {
	return b.instance
}

type FactoryBinding struct {
	key     reflect.Type
	factory FactoryFunc
}

func NewFactoryBinding(key reflect.Type, factory FactoryFunc) *FactoryBinding {
	return &FactoryBinding{
		key:     key,
		factory: factory,
	}
}

func (b *FactoryBinding) Kind() Kind {
	return KindFactory
}

func (b *FactoryBinding) Key() reflect.Type {
	return b.key
}

// Create 调用工厂方法，panic会被转换为error返回
func (b *FactoryBinding) Create() (o interface{}, err error) {
	if b.factory == nil {
		return nil, fmt.Errorf("factory of %s is nil", b.key.String())
	}
	defer func() {
		if r := recover(); r != nil {
			o = nil
			if e, ok := r.(error); ok {
				err = fmt.Errorf("factory panic: %w", e)
			} else {
				err = fmt.Errorf("factory panic: %v", r)
			}
		}
	}()
	return b.factory()
}

type InterfaceBinding struct {
	key  reflect.Type
	impl reflect.Type
}

func NewInterfaceBinding(key, impl reflect.Type) *InterfaceBinding {
	return &InterfaceBinding{
		key:  key,
		impl: impl,
	}
}

func (b *InterfaceBinding) Kind() Kind {
	return KindInterface
}

func (b *InterfaceBinding) Key() reflect.Type {
	return b.key
}

// Implementation returns the key resolution is redirected to.
func (b *InterfaceBinding) Implementation() reflect.Type {
	return b.impl
}
