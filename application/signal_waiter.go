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
	"context"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"

	"github.com/xfali/xlog"
)

type SignalWaiter interface {
	// Wait 阻塞直到收到退出信号、ctx结束或Stop被调用
	Wait(ctx context.Context) error

	// Notify 主动投递信号，队列已满时丢弃
	Notify(signal os.Signal)

	// Stop 强制结束等待
	Stop()
}

type SignalWaiterOpt func(*defaultWaiter)

type defaultWaiter struct {
	logger        xlog.Logger
	exitSignals   []os.Signal
	ignoreSignals []os.Signal
	ch            chan os.Signal

	cancel  context.CancelFunc
	ctxLock sync.Mutex
}

func NewSignalWaiter(opts ...SignalWaiterOpt) *defaultWaiter {
	ret := &defaultWaiter{
		logger:        xlog.GetLogger(),
		ch:            make(chan os.Signal, 1),
		exitSignals:   []os.Signal{syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT},
		ignoreSignals: []os.Signal{syscall.SIGHUP},
	}
	for _, opt := range opts {
		opt(ret)
	}
	signal.Notify(ret.ch, append(slices.Clone(ret.exitSignals), ret.ignoreSignals...)...)
	return ret
}

func OptWaiterLogger(logger xlog.Logger) SignalWaiterOpt {
	return func(w *defaultWaiter) {
		w.logger = logger
	}
}

func OptAddExitSignals(signals ...os.Signal) SignalWaiterOpt {
	return func(w *defaultWaiter) {
		w.exitSignals = append(w.exitSignals, signals...)
	}
}

func OptAddIgnoreSignals(signals ...os.Signal) SignalWaiterOpt {
	return func(w *defaultWaiter) {
		w.ignoreSignals = append(w.ignoreSignals, signals...)
	}
}

func (w *defaultWaiter) Wait(ctx context.Context) error {
	w.ctxLock.Lock()
	waitCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.ctxLock.Unlock()
	defer cancel()

	for {
		select {
		case <-waitCtx.Done():
			w.logger.Infof("Wait done, error: %v\n", ctx.Err())
			return ctx.Err()
		case si := <-w.ch:
			if slices.Contains(w.ignoreSignals, si) {
				w.logger.Infof("Ignore signal %s\n", si.String())
				continue
			}
			w.logger.Infof("Got a signal %s, closing...\n", si.String())
			return nil
		}
	}
}

func (w *defaultWaiter) Notify(signal os.Signal) {
	select {
	case w.ch <- signal:
	default:
	}
}

func (w *defaultWaiter) Stop() {
	w.ctxLock.Lock()
	defer w.ctxLock.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
}
