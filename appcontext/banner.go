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
	"io"
	"os"

	"github.com/xfali/xlog"
)

const (
	neveBanner = `
  .\'/.   .-----.-----.--.--.-----.  _
->- x -<- |     |  -__|  |  |  -__| (_)___  ___
  '/.\'   |__|__|_____|\___/|_____| | / _ \/ __|
============================ ioc == |_\___/\___|
`
)

func printBanner(w io.Writer, version, bannerPath string) {
	output := []byte(neveBanner)
	if bannerPath != "" {
		if data, err := os.ReadFile(bannerPath); err == nil {
			output = data
		}
	}
	w.Write(output)
	io.WriteString(w, " :: neve-ioc :: ("+version+")\n\n")
}

func selectWriter() io.Writer {
	for i := xlog.INFO; i <= xlog.DEBUG; i++ {
		w := xlog.GetOutputBySeverity(i)
		if w != nil {
			return w
		}
	}
	return os.Stdout
}
