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

package appcontext

import (
	"bytes"
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xfali/fig"
	"github.com/xfali/neve-ioc/container"
	"github.com/xfali/neve-ioc/errors"
)

type plain struct {
	V string
}

func TestFileConfigApplicationContext(t *testing.T) {
	ctx, err := NewFileConfigApplicationContext("testdata/application-test.yaml")
	require.NoError(t, err)
	defer ctx.Close()

	assert.Equal(t, "appcontext-test", ctx.GetApplicationName())
	c := ctx.Container()
	require.NotNil(t, c)

	t.Run("configuration is registered", func(t *testing.T) {
		conf, err := container.Resolve[fig.Properties](c)
		require.NoError(t, err)
		assert.Equal(t, "hello", conf.Get("userdata.value", ""))

		self, err := container.Resolve[ApplicationContext](c)
		require.NoError(t, err)
		assert.Same(t, ctx, self)
	})

	t.Run("constructor depends on configuration", func(t *testing.T) {
		require.NoError(t, c.RegisterConstructor(func(conf fig.Properties) *plain {
			return &plain{V: conf.Get("userdata.value", "")}
		}))
		p, err := container.Resolve[*plain](c)
		require.NoError(t, err)
		assert.Equal(t, "hello", p.V)
	})

	t.Run("implicit constructor disabled", func(t *testing.T) {
		type other struct{}
		_, err := container.Resolve[*other](c)
		var nc *errors.NoConstructorError
		assert.True(t, goerrors.As(err, &nc))
	})
}

func TestDefaultApplicationContext(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		buf := &bytes.Buffer{}
		ctx := NewDefaultApplicationContext(OptSetBannerWriter(buf))
		require.NoError(t, ctx.Init(nil))
		assert.Equal(t, "Neve Application", ctx.GetApplicationName())
		assert.Contains(t, buf.String(), "neve-ioc")
		assert.False(t, container.IsRegistered[fig.Properties](ctx.Container()))
		assert.True(t, container.IsRegistered[ApplicationContext](ctx.Container()))
	})

	t.Run("init twice", func(t *testing.T) {
		ctx := NewDefaultApplicationContext(OptSetBannerWriter(&bytes.Buffer{}))
		require.NoError(t, ctx.Init(nil))
		assert.Error(t, ctx.Init(nil))
	})

	t.Run("container opts", func(t *testing.T) {
		ctx := NewDefaultApplicationContext(
			OptSetBannerWriter(&bytes.Buffer{}),
			OptSetContainerOpts(container.OptSetID("app")))
		require.NoError(t, ctx.Init(nil))
		assert.Equal(t, "app", ctx.Container().ID())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		ctx := NewDefaultApplicationContext(OptSetBannerWriter(&bytes.Buffer{}))
		require.NoError(t, ctx.Init(nil))
		assert.NoError(t, ctx.Close())
		assert.NoError(t, ctx.Close())
	})

	t.Run("bad policy", func(t *testing.T) {
		_, err := NewFileConfigApplicationContext("testdata/application-bad.yaml",
			OptSetBannerWriter(&bytes.Buffer{}))
		assert.ErrorContains(t, err, KeyConstructorSelect)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileConfigApplicationContext("testdata/not-exists.yaml")
		assert.Error(t, err)
	})
}
