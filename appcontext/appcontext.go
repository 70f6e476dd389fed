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
	"github.com/xfali/fig"
	"github.com/xfali/neve-ioc/container"
)

type ApplicationContext interface {
	// 初始化context，根据配置创建容器
	Init(config fig.Properties) error

	// 获得应用名称
	GetApplicationName() string

	// 获得容器，Init之前为nil
	Container() *container.Container

	// 关闭，容器不负责销毁对象
	Close() error
}
