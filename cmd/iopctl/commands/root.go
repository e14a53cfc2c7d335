/*
Copyright 2026 Shane Utt.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package commands defines the iopctl command tree and flag bindings.
// Execution is delegated to the handlers package.
package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/networking-incubator/istio-install-api/internal/manifest"
)

// EnvPrefix prefixes the environment variables iopctl reads its settings
// from, for example IOPCTL_OUTPUT.
const EnvPrefix = "IOPCTL"

// Setting keys shared by flags, the config file and the environment.
const (
	keyVerbose = "verbose"
	keyOutput  = "output"
	keyChart   = "chart"
)

// Root returns the root command for the iopctl CLI.
func Root() *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:           "iopctl",
		Short:         "Inspect and validate IstioOperator install resources",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(v, configFile); err != nil {
				return err
			}
			logger := zap.New(
				zap.UseDevMode(v.GetBool(keyVerbose)),
				zap.WriteTo(cmd.ErrOrStderr()),
			)
			logf.SetLogger(logger)
			cmd.SetContext(logf.IntoContext(cmd.Context(), logger))
			if used := v.ConfigFileUsed(); used != "" {
				logger.V(1).Info("using config file", "path", used)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is ./iopctl.yaml when present)")
	flags.BoolP(keyVerbose, "v", false, "enable verbose logging")
	flags.StringP(keyOutput, "o", string(manifest.FormatYAML), "output format: yaml or json")
	_ = v.BindPFlag(keyVerbose, flags.Lookup(keyVerbose))
	_ = v.BindPFlag(keyOutput, flags.Lookup(keyOutput))

	cmd.AddCommand(Validate())
	cmd.AddCommand(Profile(v))
	cmd.AddCommand(Resolve(v))
	cmd.AddCommand(Values(v))
	cmd.AddCommand(Components())
	cmd.AddCommand(Status())
	cmd.AddCommand(Version())

	return cmd
}

// loadConfig reads the config file and environment into v. An explicit
// config file must exist; the default one is optional.
func loadConfig(v *viper.Viper, configFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("iopctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func outputFormat(v *viper.Viper) (manifest.Format, error) {
	return manifest.ParseFormat(v.GetString(keyOutput))
}
