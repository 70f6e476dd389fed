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

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xfali/fig"
	"github.com/xfali/neve-ioc/appcontext"
	"github.com/xfali/neve-ioc/application"
	"github.com/xfali/neve-ioc/container"
	"github.com/xfali/neve-ioc/examples/userservice"
	"github.com/xfali/neve-ioc/version"
)

const (
	EnvConfig         = "NEVE_CONFIG"
	EnvResourceDir    = "NEVE_RESOURCE_DIR"
	DefaultConfigFile = "application.yaml"
)

type options struct {
	configFile string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "neve-ioc-demo",
		Short:        "Resolve a small user service graph from a neve-ioc container",
		Version:      version.NeveIocVersion,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "",
		"yaml config file (default: $"+EnvConfig+" or "+DefaultConfigFile+")")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "",
		"dotenv file loaded before the config is located, overriding the environment")

	root.AddCommand(newRunCmd(opts), newListCmd(opts), newVerifyCmd(opts), newServeCmd(opts))
	return root
}

func newRunCmd(opts *options) *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Resolve UserService and register a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer ctx.Close()

			svc, err := container.Resolve[*userservice.UserService](ctx.Container())
			if err != nil {
				return err
			}
			addr, err := svc.Register(name, email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s registered, welcome mail sent via %s\n", name, addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "neve", "user name")
	cmd.Flags().StringVar(&email, "email", "neve@example.com", "user email")
	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the registrations of the container",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer ctx.Close()

			c := ctx.Container()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Container: %s\n", c.ID())
			fmt.Fprint(out, c.ListRegistrations().String())
			fmt.Fprintln(out, "Constructors:")
			for _, t := range c.Instantiator().Types() {
				fmt.Fprintf(out, "  %s\n", t.String())
			}
			return nil
		},
	}
}

func newVerifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the dependency graph without building anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer ctx.Close()

			if err := ctx.Container().Verify(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Verify the container and hold it until SIGINT or SIGTERM",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.open(cmd)
			if err != nil {
				return err
			}
			if err := ctx.Container().Verify(); err != nil {
				ctx.Close()
				return err
			}
			return application.New(ctx).Run(cmd.Context())
		},
	}
}

// open builds the application context and wires the example into it.
// A missing default config file is not an error, defaults are used instead.
func (o *options) open(cmd *cobra.Command) (appcontext.ApplicationContext, error) {
	if o.envFile != "" {
		if err := godotenv.Overload(o.envFile); err != nil {
			return nil, fmt.Errorf("load env file %s failed: %w", o.envFile, err)
		}
	}

	path, explicit := o.configPath()
	var conf fig.Properties
	if _, err := os.Stat(path); err == nil {
		conf, err = fig.LoadYamlFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config file %s failed: %w", path, err)
		}
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	ctx := appcontext.NewDefaultApplicationContext(appcontext.OptSetBannerWriter(cmd.ErrOrStderr()))
	if err := ctx.Init(conf); err != nil {
		return nil, err
	}
	if err := userservice.Wire(ctx.Container(), conf); err != nil {
		ctx.Close()
		return nil, err
	}
	return ctx, nil
}

func (o *options) configPath() (string, bool) {
	if o.configFile != "" {
		return o.configFile, true
	}
	if v := strings.TrimSpace(os.Getenv(EnvConfig)); v != "" {
		return v, true
	}
	if dir := os.Getenv(EnvResourceDir); dir != "" {
		return filepath.Join(dir, DefaultConfigFile), false
	}
	return DefaultConfigFile, false
}
