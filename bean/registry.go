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
	"sync"

	"github.com/xfali/goutils/container/skiplist"
	"github.com/xfali/neve-ioc/errors"
	"github.com/xfali/neve-ioc/reflection"
	"github.com/xfali/xlog"
)

const (
	defaultPoolSize    = 128
	defaultEnableCache = true
)

type Registry interface {
	// 注册单例，每次解析都返回同一个对象
	RegisterSingleton(key reflect.Type, instance interface{})

	// 注册工厂方法，每次解析都会调用factory
	RegisterFactory(key reflect.Type, factory FactoryFunc)

	// 绑定接口到实现类型，解析接口时转为解析实现类型
	Bind(interfaceKey, implementationKey reflect.Type)

	// 查找绑定，不存在时返回*errors.NotFoundError
	Lookup(key reflect.Type) (Binding, error)

	// 是否存在任意类型的绑定
	IsRegistered(key reflect.Type) bool

	// 所有已注册的key，按首次注册顺序
	Keys() []reflect.Type

	// 诊断用快照
	ListRegistrations() Registrations
}

type RegistryOpt func(*defaultRegistry)

// 配置是否开启key缓存，用于提高Keys及ListRegistrations的性能
// 默认开启
func OptRegistryEnableCache(flag bool) RegistryOpt {
	return func(r *defaultRegistry) {
		r.enableCache = flag
	}
}

func OptRegistryLogger(logger xlog.Logger) RegistryOpt {
	return func(r *defaultRegistry) {
		r.logger = logger
	}
}

type elem struct {
	binding Binding
	order   int
}

type pool struct {
	l *skiplist.SkipList
	m map[reflect.Type]*elem

	seq   int
	k     []reflect.Type
	cache bool
	dirty bool

	locker sync.RWMutex
}

func newPool(initSize int, cacheKey bool) *pool {
	return &pool{
		m:     make(map[reflect.Type]*elem, initSize),
		l:     skiplist.New(skiplist.SetKeyCompareFunc(skiplist.CompareInt)),
		cache: cacheKey,
	}
}

// store 覆盖已存在的绑定，保留其首次注册的顺序
func (p *pool) store(key reflect.Type, b Binding) (old Binding) {
	p.locker.Lock()
	defer p.locker.Unlock()

	if v, ok := p.m[key]; ok {
		old = v.binding
		v.binding = b
		return old
	}
	p.seq++
	p.l.Set(p.seq, key)
	p.m[key] = &elem{
		binding: b,
		order:   p.seq,
	}
	// mark dirty
	p.dirty = true
	return nil
}

func (p *pool) load(key reflect.Type) (Binding, bool) {
	p.locker.RLock()
	defer p.locker.RUnlock()

	if v, ok := p.m[key]; ok {
		return v.binding, true
	}
	return nil, false
}

func (p *pool) keys() []reflect.Type {
	// 缓存的写入需要独占锁
	p.locker.Lock()
	defer p.locker.Unlock()

	if p.cache && !p.dirty && p.k != nil {
		return copyKeys(p.k)
	}

	if p.l.Len() == 0 {
		return nil
	}

	ret := make([]reflect.Type, 0, len(p.m))
	for x := p.l.First(); x != nil; x = x.Next() {
		ret = append(ret, x.Value().(reflect.Type))
	}

	if p.cache {
		p.k = ret
		p.dirty = false
		return copyKeys(ret)
	}
	return ret
}

func copyKeys(keys []reflect.Type) []reflect.Type {
	ret := make([]reflect.Type, len(keys))
	copy(ret, keys)
	return ret
}

type defaultRegistry struct {
	logger      xlog.Logger
	enableCache bool
	bindings    *pool
}

func NewRegistry(opts ...RegistryOpt) *defaultRegistry {
	ret := &defaultRegistry{
		logger:      xlog.GetLogger(),
		enableCache: defaultEnableCache,
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.bindings = newPool(defaultPoolSize, ret.enableCache)
	return ret
}

func (r *defaultRegistry) RegisterSingleton(key reflect.Type, instance interface{}) {
	r.put(NewSingletonBinding(key, instance))
}

func (r *defaultRegistry) RegisterFactory(key reflect.Type, factory FactoryFunc) {
	r.put(NewFactoryBinding(key, factory))
}

func (r *defaultRegistry) Bind(interfaceKey, implementationKey reflect.Type) {
	r.put(NewInterfaceBinding(interfaceKey, implementationKey))
}

func (r *defaultRegistry) put(b Binding) {
	old := r.bindings.store(b.Key(), b)
	if old != nil {
		r.logger.Infof("Binding [%s] replaced: %s -> %s\n",
			reflection.GetTypeName(b.Key()), old.Kind(), b.Kind())
		return
	}
	r.logger.Debugf("Register %s binding: [%s]\n", b.Kind(), reflection.GetTypeName(b.Key()))
}

func (r *defaultRegistry) Lookup(key reflect.Type) (Binding, error) {
	if b, ok := r.bindings.load(key); ok {
		return b, nil
	}
	return nil, &errors.NotFoundError{Key: key}
}

func (r *defaultRegistry) IsRegistered(key reflect.Type) bool {
	_, ok := r.bindings.load(key)
	return ok
}

func (r *defaultRegistry) Keys() []reflect.Type {
	return r.bindings.keys()
}

func (r *defaultRegistry) ListRegistrations() Registrations {
	ret := Registrations{}
	for _, k := range r.Keys() {
		b, ok := r.bindings.load(k)
		if !ok {
			continue
		}
		switch v := b.(type) {
		case *SingletonBinding:
			ret.Singletons = append(ret.Singletons, k)
		case *FactoryBinding:
			ret.Factories = append(ret.Factories, k)
		case *InterfaceBinding:
			ret.Interfaces = append(ret.Interfaces, InterfacePair{
				Interface:      k,
				Implementation: v.Implementation(),
			})
		}
	}
	return ret
}
