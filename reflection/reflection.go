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

package reflection

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/xfali/neve-utils/reflection"
)

var ErrorType = reflect.TypeOf((*error)(nil)).Elem()

// TypeOf 获得T的类型key，interface类型同样适用
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// IsAbstract 接口类型无法直接构造
func IsAbstract(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface
}

// IsNillable reports whether the zero value of t is nil.
func IsNillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// IsStructLike reports whether t is a struct or a pointer to a struct.
func IsStructLike(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func GetTypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	buf := strings.Builder{}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
		buf.WriteString("*")
	}

	switch t.Kind() {
	case reflect.Slice:
		buf.WriteString(GetSliceName(t))
	case reflect.Map:
		buf.WriteString(GetMapName(t))
	default:
		if t.PkgPath() != "" && t.Name() != "" {
			buf.WriteString(reflection.GetTypeName(t))
		} else {
			buf.WriteString(t.String())
		}
	}
	return buf.String()
}

func GetSliceName(t reflect.Type) string {
	elemType := t.Elem()

	name := elemType.PkgPath()
	if name != "" {
		name = strings.Replace(name, "/", ".", -1) + "." + elemType.Name()
		return "[]" + name
	} else {
		return t.String()
	}
}

func GetMapName(t reflect.Type) string {
	keyType := t.Key()
	elemType := t.Elem()

	key := keyType.PkgPath()
	if key != "" {
		key = strings.Replace(key, "/", ".", -1) + "." + keyType.Name()
	} else {
		key = keyType.String()
	}

	name := elemType.PkgPath()
	if name != "" {
		name = strings.Replace(name, "/", ".", -1) + "." + elemType.Name()
		return fmt.Sprintf("map[%s]%s", key, name)
	} else {
		return t.String()
	}
}

// GetShortName 不带包路径的名称，用于日志及错误链
func GetShortName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
