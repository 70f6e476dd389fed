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
	goerrors "errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xfali/neve-ioc/errors"
)

type config struct {
	addr string
}

type client struct {
	conf *config
	name string
}

func newClient(conf *config) *client {
	return &client{conf: conf}
}

func newNamedClient(conf *config, name string) (*client, error) {
	if name == "" {
		return nil, goerrors.New("empty name")
	}
	return &client{conf: conf, name: name}, nil
}

var (
	configKey = reflect.TypeOf(&config{})
	clientKey = reflect.TypeOf(&client{})
)

// values 按类型返回固定对象
func values(m map[reflect.Type]interface{}) ResolveFunc {
	return func(t reflect.Type) (reflect.Value, error) {
		if v, ok := m[t]; ok {
			return reflect.ValueOf(v), nil
		}
		return reflect.Value{}, &errors.NotFoundError{Key: t}
	}
}

func TestNewConstructor(t *testing.T) {
	c, err := NewConstructor(newNamedClient)
	require.NoError(t, err)
	assert.Equal(t, clientKey, c.Type())
	assert.Equal(t, []reflect.Type{configKey, reflect.TypeOf("")}, c.Params())
	assert.Equal(t, 2, c.NumParams())
	assert.False(t, c.IsImplicit())
	assert.True(t, strings.HasSuffix(c.Name(), "newNamedClient"), c.Name())

	for _, fn := range []interface{}{
		nil,
		"string",
		func() {},
		func() error { return nil },
		func() (int, string) { return 0, "" },
		func(...int) int { return 0 },
		(func() int)(nil),
		func() fmt.Stringer { return nil },
	} {
		_, err := NewConstructor(fn)
		assert.Error(t, err, "%T", fn)
	}
}

func TestConstruct(t *testing.T) {
	conf := &config{addr: "localhost"}

	t.Run("resolve params", func(t *testing.T) {
		i := New()
		require.NoError(t, i.RegisterConstructor(newClient))
		v, err := i.Construct(clientKey, values(map[reflect.Type]interface{}{configKey: conf}))
		require.NoError(t, err)
		assert.Same(t, conf, v.Interface().(*client).conf)
	})

	t.Run("param error is not wrapped", func(t *testing.T) {
		i := New()
		require.NoError(t, i.RegisterConstructor(newClient))
		_, err := i.Construct(clientKey, values(nil))
		var nf *errors.NotFoundError
		require.True(t, goerrors.As(err, &nf))
		assert.Equal(t, configKey, nf.Key)
	})

	t.Run("constructor error", func(t *testing.T) {
		i := New()
		require.NoError(t, i.RegisterConstructor(newNamedClient))
		_, err := i.Construct(clientKey, values(map[reflect.Type]interface{}{
			configKey:          conf,
			reflect.TypeOf(""): "",
		}))
		var ce *errors.ConstructionError
		require.True(t, goerrors.As(err, &ce))
		assert.EqualError(t, ce.Cause, "empty name")
	})

	t.Run("interface", func(t *testing.T) {
		i := New()
		_, err := i.Construct(reflect.TypeOf((*fmt.Stringer)(nil)).Elem(), values(nil))
		var nc *errors.NoConstructorError
		assert.True(t, goerrors.As(err, &nc))
	})

	t.Run("implicit", func(t *testing.T) {
		i := New()
		v, err := i.Construct(configKey, values(nil))
		require.NoError(t, err)
		assert.Equal(t, &config{}, v.Interface())

		v, err = i.Construct(configKey.Elem(), values(nil))
		require.NoError(t, err)
		assert.Equal(t, config{}, v.Interface())

		d, err := i.Descriptor(configKey)
		require.NoError(t, err)
		assert.True(t, d.IsImplicit())

		_, err = New(OptSetImplicitConstructor(false)).Construct(configKey, values(nil))
		var nc *errors.NoConstructorError
		assert.True(t, goerrors.As(err, &nc))
	})
}

func TestSelectPolicy(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		for s, expect := range map[string]SelectPolicy{
			"":          SelectFirst,
			"first":     SelectFirst,
			" Greedy ":  SelectGreediest,
			"greediest": SelectGreediest,
		} {
			p, err := ParseSelectPolicy(s)
			require.NoError(t, err)
			assert.Equal(t, expect, p, s)
		}
		_, err := ParseSelectPolicy("random")
		assert.Error(t, err)
		assert.Equal(t, "greediest", SelectGreediest.String())
	})

	t.Run("first", func(t *testing.T) {
		i := New()
		require.NoError(t, i.RegisterConstructor(newClient))
		require.NoError(t, i.RegisterConstructor(newNamedClient))
		d, err := i.Descriptor(clientKey)
		require.NoError(t, err)
		assert.Equal(t, 1, d.NumParams())
		assert.Len(t, i.Constructors(clientKey), 2)
		assert.Equal(t, []reflect.Type{clientKey}, i.Types())
	})

	t.Run("greediest", func(t *testing.T) {
		i := New(OptSetSelectPolicy(SelectGreediest))
		require.NoError(t, i.RegisterConstructor(newClient))
		d, err := i.Descriptor(clientKey)
		require.NoError(t, err)
		assert.Equal(t, 1, d.NumParams())

		require.NoError(t, i.RegisterConstructor(newNamedClient))
		d, err = i.Descriptor(clientKey)
		require.NoError(t, err)
		assert.Equal(t, 2, d.NumParams())
	})

	t.Run("greediest tie", func(t *testing.T) {
		i := New(OptSetSelectPolicy(SelectGreediest))
		first := func(c *config) *client { return &client{name: "first"} }
		second := func(c *config) *client { return &client{name: "second"} }
		require.NoError(t, i.RegisterConstructor(first))
		require.NoError(t, i.RegisterConstructor(second))
		v, err := i.Construct(clientKey, values(map[reflect.Type]interface{}{configKey: &config{}}))
		require.NoError(t, err)
		assert.Equal(t, "first", v.Interface().(*client).name)
	})
}

func TestCall(t *testing.T) {
	conf := &config{addr: "localhost"}
	i := New()

	results, err := i.Call(func(c *config) string {
		return c.addr
	}, values(map[reflect.Type]interface{}{configKey: conf}))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "localhost", results[0].String())

	cause := goerrors.New("call failed")
	_, err = i.Call(func(c *config) error {
		return cause
	}, values(map[reflect.Type]interface{}{configKey: conf}))
	assert.ErrorIs(t, err, cause)

	_, err = i.Call(func() { panic("boom") }, values(nil))
	assert.ErrorContains(t, err, "boom")

	_, err = i.Call(42, values(nil))
	assert.Error(t, err)
	_, err = i.Call(nil, values(nil))
	assert.Error(t, err)
}
