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

package errors

import (
	"reflect"
	"strings"

	"github.com/xfali/neve-ioc/reflection"
)

// NotFoundError 容器中没有该key的任何绑定
type NotFoundError struct {
	Key reflect.Type
}

func (e *NotFoundError) Error() string {
	if reflection.IsAbstract(e.Key) {
		return "no binding registered for abstract type " + reflection.GetShortName(e.Key)
	}
	return "no binding registered for " + reflection.GetShortName(e.Key)
}

// NoConstructorError 具体类型没有可用的构造方法
type NoConstructorError struct {
	Type reflect.Type
}

func (e *NoConstructorError) Error() string {
	return "no constructor found for " + reflection.GetShortName(e.Type)
}

// ConstructionError wraps a failure raised by a constructor or a factory.
type ConstructionError struct {
	Type  reflect.Type
	Cause error
}

func (e *ConstructionError) Error() string {
	return "construct " + reflection.GetShortName(e.Type) + " failed: " + e.Cause.Error()
}

func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError 绑定产生的对象无法赋值给请求的类型
type TypeMismatchError struct {
	Key    reflect.Type
	Actual reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return "value of type " + reflection.GetShortName(e.Actual) +
		" is not assignable to " + reflection.GetShortName(e.Key)
}

type CircularDependencyError struct {
	// Chain starts and ends with the repeated key.
	Chain []reflect.Type
}

func (e *CircularDependencyError) Error() string {
	return "circular dependency: " + joinTypes(e.Chain, " -> ")
}

// ResolutionError 对外的解析失败错误，逐层包装形成依赖链
type ResolutionError struct {
	Key reflect.Type
	Err error
}

func (e *ResolutionError) Error() string {
	buf := strings.Builder{}
	var cur error = e
	for {
		re, ok := cur.(*ResolutionError)
		if !ok {
			break
		}
		buf.WriteString("failed to resolve ")
		buf.WriteString(reflection.GetShortName(re.Key))
		if re.Err == nil {
			return buf.String()
		}
		buf.WriteString(" -> ")
		cur = re.Err
	}
	buf.WriteString(cur.Error())
	return buf.String()
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Path returns the requested keys from the outermost to the innermost failure.
func (e *ResolutionError) Path() []reflect.Type {
	var ret []reflect.Type
	var cur error = e
	for {
		re, ok := cur.(*ResolutionError)
		if !ok {
			return ret
		}
		ret = append(ret, re.Key)
		cur = re.Err
	}
}

func joinTypes(types []reflect.Type, sep string) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = reflection.GetShortName(t)
	}
	return strings.Join(names, sep)
}
