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

package application

import (
	"bytes"
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xfali/neve-ioc/appcontext"
)

type closeCounter struct {
	appcontext.ApplicationContext
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return c.ApplicationContext.Close()
}

func newContext(t *testing.T) *closeCounter {
	ctx := appcontext.NewDefaultApplicationContext(appcontext.OptSetBannerWriter(&bytes.Buffer{}))
	require.NoError(t, ctx.Init(nil))
	return &closeCounter{ApplicationContext: ctx}
}

func TestSignalWaiter(t *testing.T) {
	waiter := NewSignalWaiter()

	t.Run("stop", func(t *testing.T) {
		go func() {
			time.Sleep(100 * time.Millisecond)
			waiter.Stop()
		}()
		assert.NoError(t, waiter.Wait(context.Background()))
	})

	t.Run("ctx done", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, waiter.Wait(ctx), context.DeadlineExceeded)
	})

	t.Run("ignore SIGHUP then SIGTERM", func(t *testing.T) {
		go func() {
			waiter.Notify(syscall.SIGHUP)
			time.Sleep(100 * time.Millisecond)
			waiter.Notify(syscall.SIGTERM)
		}()
		assert.NoError(t, waiter.Wait(context.Background()))
	})
}

func TestApplication(t *testing.T) {
	t.Run("exit signal closes context", func(t *testing.T) {
		ctx := newContext(t)
		waiter := NewSignalWaiter()
		app := New(ctx, OptSetSignalWaiter(waiter))
		go func() {
			time.Sleep(100 * time.Millisecond)
			waiter.Notify(syscall.SIGINT)
		}()
		require.NoError(t, app.Run(context.Background()))
		assert.Equal(t, 1, ctx.closed)
	})

	t.Run("stop", func(t *testing.T) {
		ctx := newContext(t)
		app := New(ctx)
		go func() {
			time.Sleep(100 * time.Millisecond)
			app.Stop()
		}()
		require.NoError(t, app.Run(context.Background()))
		assert.Equal(t, 1, ctx.closed)
	})
}
