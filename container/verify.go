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

	"github.com/xfali/neve-ioc/bean"
	"github.com/xfali/neve-ioc/errors"
	"github.com/xfali/neve-ioc/reflection"
)

// Verify walks the dependency graph of every registered key and every type
// with a declared constructor without calling any factory or constructor.
// It reports unbound interfaces, unconstructible types, dependency cycles and
// interface bindings to concrete types that do not implement the interface.
// Singleton and factory bindings are leaves.
func (c *Container) Verify() error {
	var errs errors.Errors
	checked := map[reflect.Type]error{}
	reported := map[string]bool{}
	visited := map[reflect.Type]bool{}

	roots := append(c.registry.Keys(), c.inst.Types()...)
	for _, k := range roots {
		if visited[k] {
			continue
		}
		visited[k] = true
		err := c.verify(k, &resolution{}, checked)
		if err == nil {
			continue
		}
		// 同一根因只报告一次
		cause := rootCause(err).Error()
		if reported[cause] {
			continue
		}
		reported[cause] = true
		errs.AddError(err)
	}
	if err := errs.ErrorOrNil(); err != nil {
		c.logger.Warnln("Container", c.id, "verify failed:", err)
		return err
	}
	return nil
}

func (c *Container) verify(key reflect.Type, r *resolution, checked map[reflect.Type]error) error {
	if err, ok := checked[key]; ok {
		return err
	}
	if err := r.enter(key); err != nil {
		return err
	}
	err := c.verifyBinding(key, r, checked)
	r.leave()
	if err != nil {
		err = &errors.ResolutionError{Key: key, Err: err}
	}
	checked[key] = err
	return err
}

func (c *Container) verifyBinding(key reflect.Type, r *resolution, checked map[reflect.Type]error) error {
	b, err := c.registry.Lookup(key)
	if err == nil {
		v, ok := b.(*bean.InterfaceBinding)
		if !ok {
			return nil
		}
		impl := v.Implementation()
		if err := c.verify(impl, r, checked); err != nil {
			return err
		}
		if t := c.terminalType(impl); !reflection.IsAbstract(t) && !t.AssignableTo(key) {
			return &errors.TypeMismatchError{Key: key, Actual: t}
		}
		return nil
	}
	if reflection.IsAbstract(key) {
		return err
	}

	d, err := c.inst.Descriptor(key)
	if err != nil {
		return err
	}
	for _, p := range d.Params() {
		if err := c.verify(p, r, checked); err != nil {
			return err
		}
	}
	return nil
}

// terminalType follows interface bindings from t to the type that is finally
// built. An interface with a singleton or factory binding stays abstract.
func (c *Container) terminalType(t reflect.Type) reflect.Type {
	seen := map[reflect.Type]bool{}
	for reflection.IsAbstract(t) && !seen[t] {
		seen[t] = true
		b, err := c.registry.Lookup(t)
		if err != nil {
			return t
		}
		v, ok := b.(*bean.InterfaceBinding)
		if !ok {
			return t
		}
		t = v.Implementation()
	}
	return t
}

func rootCause(err error) error {
	for {
		re, ok := err.(*errors.ResolutionError)
		if !ok || re.Err == nil {
			return err
		}
		err = re.Err
	}
}
