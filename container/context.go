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

package container

import (
	"context"
	"errors"
)

type containerKeyType string

const containerKey containerKeyType = "neve-ioc-container"

// WithContainer returns a copy of ctx carrying c.
func WithContainer(ctx context.Context, c *Container) context.Context {
	return context.WithValue(ctx, containerKey, c)
}

// FromContext returns the container carried by ctx.
func FromContext(ctx context.Context) (*Container, error) {
	c, ok := ctx.Value(containerKey).(*Container)
	if !ok || c == nil {
		return nil, errors.New("container not found in context")
	}
	return c, nil
}
