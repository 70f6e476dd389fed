/*
 * Copyright (C) 2022, Xiongfa Li.
 * All rights reserved.
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

package errors

import (
	"strings"
)

// Errors 收集多个错误，用于一次性报告所有问题
type Errors []error

func (es Errors) Empty() bool {
	return len(es) == 0
}

func (es *Errors) AddError(e error) {
	if e == nil {
		return
	}
	*es = append(*es, e)
}

func (es Errors) Error() string {
	buf := strings.Builder{}
	for i := range es {
		buf.WriteString(es[i].Error())
		if i < len(es)-1 {
			buf.WriteString("; ")
		}
	}
	return buf.String()
}

// Unwrap exposes every collected error to errors.Is / errors.As.
func (es Errors) Unwrap() []error {
	return es
}

// ErrorOrNil 列表为空时返回nil，避免返回非nil的空列表
func (es Errors) ErrorOrNil() error {
	if es.Empty() {
		return nil
	}
	return es
}
