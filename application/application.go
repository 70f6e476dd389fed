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

// Package application keeps an initialized ApplicationContext alive until the
// process is asked to stop, then closes it.
package application

import (
	"context"

	"github.com/xfali/neve-ioc/appcontext"
	"github.com/xfali/xlog"
)

type Opt func(*Application)

type Application struct {
	logger xlog.Logger
	ctx    appcontext.ApplicationContext
	waiter SignalWaiter
}

func New(ctx appcontext.ApplicationContext, opts ...Opt) *Application {
	ret := &Application{
		logger: xlog.GetLogger(),
		ctx:    ctx,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.waiter == nil {
		ret.waiter = NewSignalWaiter(OptWaiterLogger(ret.logger))
	}
	return ret
}

func OptSetLogger(logger xlog.Logger) Opt {
	return func(app *Application) {
		app.logger = logger
	}
}

func OptSetSignalWaiter(waiter SignalWaiter) Opt {
	return func(app *Application) {
		app.waiter = waiter
	}
}

// Run blocks until a exit signal arrives or ctx is done, then closes the
// application context. The context is closed even when waiting fails.
func (app *Application) Run(ctx context.Context) error {
	app.logger.Infof("Application [%s] running\n", app.ctx.GetApplicationName())
	werr := app.waiter.Wait(ctx)
	if err := app.ctx.Close(); err != nil {
		app.logger.Errorln(err)
		return err
	}
	return werr
}

func (app *Application) Stop() {
	app.waiter.Stop()
}
