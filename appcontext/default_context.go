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
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/xfali/fig"
	"github.com/xfali/neve-ioc/container"
	"github.com/xfali/neve-ioc/injector"
	"github.com/xfali/neve-ioc/version"
	"github.com/xfali/xlog"
)

const (
	statusNone int32 = iota
	statusInitialized
	statusClosed
)

const (
	KeyApplicationName     = "neve.application.name"
	KeyBanner              = "neve.application.banner"
	KeyBannerMode          = "neve.application.bannerMode"
	KeyConstructorSelect   = "neve.container.constructor.select"
	KeyImplicitConstructor = "neve.container.implicitConstructor"
)

type Opt func(*defaultApplicationContext)

type defaultApplicationContext struct {
	config       fig.Properties
	logger       xlog.Logger
	ctrOpts      []container.Opt
	container    *container.Container
	bannerWriter io.Writer

	appName  string
	curState int32

	closeOnce sync.Once
}

func NewDefaultApplicationContext(opts ...Opt) *defaultApplicationContext {
	ret := &defaultApplicationContext{
		logger:   xlog.GetLogger(),
		curState: statusNone,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// NewFileConfigApplicationContext 读取yaml配置文件并初始化context
func NewFileConfigApplicationContext(configPath string, opts ...Opt) (*defaultApplicationContext, error) {
	prop, err := fig.LoadYamlFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config file %s failed: %w", configPath, err)
	}
	ret := NewDefaultApplicationContext(opts...)
	if err := ret.Init(prop); err != nil {
		return nil, err
	}
	return ret, nil
}

func OptSetLogger(logger xlog.Logger) Opt {
	return func(ctx *defaultApplicationContext) {
		ctx.logger = logger
	}
}

// OptSetContainerOpts 追加创建容器的配置，优先级高于配置文件
func OptSetContainerOpts(opts ...container.Opt) Opt {
	return func(ctx *defaultApplicationContext) {
		ctx.ctrOpts = append(ctx.ctrOpts, opts...)
	}
}

// OptSetBannerWriter 默认输出到xlog的INFO输出
func OptSetBannerWriter(w io.Writer) Opt {
	return func(ctx *defaultApplicationContext) {
		ctx.bannerWriter = w
	}
}

func (ctx *defaultApplicationContext) Init(config fig.Properties) error {
	if !atomic.CompareAndSwapInt32(&ctx.curState, statusNone, statusInitialized) {
		return fmt.Errorf("Application Context Status error, current: %d . ", atomic.LoadInt32(&ctx.curState))
	}
	ctx.config = config
	ctx.appName = ctx.get(KeyApplicationName, "Neve Application")
	ctx.printCtxInfo()

	policy, err := injector.ParseSelectPolicy(ctx.get(KeyConstructorSelect, "first"))
	if err != nil {
		return fmt.Errorf("%s: %w", KeyConstructorSelect, err)
	}
	implicit, err := strconv.ParseBool(ctx.get(KeyImplicitConstructor, "true"))
	if err != nil {
		return fmt.Errorf("%s: %w", KeyImplicitConstructor, err)
	}

	opts := []container.Opt{
		container.OptSetLogger(ctx.logger),
		container.OptSetSelectPolicy(policy),
		container.OptSetImplicitConstructor(implicit),
	}
	ctx.container = container.New(append(opts, ctx.ctrOpts...)...)
	if config != nil {
		container.Singleton[fig.Properties](ctx.container, config)
	}
	container.Singleton[ApplicationContext](ctx.container, ctx)

	ctx.logger.Infof("Application [%s] initialized, container: %s, constructor select: %s\n",
		ctx.appName, ctx.container.ID(), policy)
	return nil
}

func (ctx *defaultApplicationContext) GetApplicationName() string {
	return ctx.appName
}

func (ctx *defaultApplicationContext) Container() *container.Container {
	return ctx.container
}

func (ctx *defaultApplicationContext) Close() error {
	ctx.closeOnce.Do(func() {
		atomic.StoreInt32(&ctx.curState, statusClosed)
		ctx.logger.Infof("Application [%s] closed\n", ctx.appName)
	})
	return nil
}

func (ctx *defaultApplicationContext) get(key, defaultValue string) string {
	if ctx.config == nil {
		return defaultValue
	}
	return ctx.config.Get(key, defaultValue)
}

func (ctx *defaultApplicationContext) printCtxInfo() {
	mode := strings.ToLower(ctx.get(KeyBannerMode, "on"))
	if mode == "off" || mode == "false" {
		return
	}
	w := ctx.bannerWriter
	if w == nil {
		w = selectWriter()
	}
	printBanner(w, version.NeveIocVersion, ctx.get(KeyBanner, ""))
}
