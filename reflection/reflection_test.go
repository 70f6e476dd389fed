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
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct{}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, reflect.Interface, TypeOf[fmt.Stringer]().Kind())
	assert.Equal(t, reflect.TypeOf(&sample{}), TypeOf[*sample]())
	assert.Equal(t, ErrorType, TypeOf[error]())
}

func TestKinds(t *testing.T) {
	assert.True(t, IsAbstract(TypeOf[fmt.Stringer]()))
	assert.False(t, IsAbstract(TypeOf[*sample]()))
	assert.False(t, IsAbstract(nil))

	for _, v := range []reflect.Type{TypeOf[*sample](), TypeOf[fmt.Stringer](), TypeOf[[]int](),
		TypeOf[map[string]int](), TypeOf[func()](), TypeOf[chan int]()} {
		assert.True(t, IsNillable(v), v.String())
	}
	assert.False(t, IsNillable(TypeOf[sample]()))
	assert.False(t, IsNillable(TypeOf[int]()))

	assert.True(t, IsStructLike(TypeOf[sample]()))
	assert.True(t, IsStructLike(TypeOf[*sample]()))
	assert.False(t, IsStructLike(TypeOf[*int]()))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "<nil>", GetTypeName(nil))
	assert.Equal(t, "int", GetTypeName(TypeOf[int]()))
	assert.Equal(t, "[]int", GetTypeName(TypeOf[[]int]()))
	assert.Equal(t, "map[string]int", GetTypeName(TypeOf[map[string]int]()))
	assert.Contains(t, GetTypeName(TypeOf[*sample]()), "sample")
	assert.Equal(t, "*reflection.sample", GetShortName(TypeOf[*sample]()))
	assert.Equal(t, "<nil>", GetShortName(nil))
}
