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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/networking-incubator/istio-install-api/cmd/iopctl/handlers"
)

// Resolve returns the command that applies a profile to an IstioOperator.
func Resolve(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve FILE",
		Short: "Print an IstioOperator with its profile applied",
		Long: `Overlay the IstioOperator in FILE on the profile it names.

FILE may hold a complete IstioOperator document or a bare spec. Fields set in
FILE take precedence over the profile, and explicit nulls remove profile
values.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(v)
			if err != nil {
				return err
			}
			return handlers.Resolve(cmd.Context(), cmd.OutOrStdout(), args[0], format)
		},
	}
}

// Values returns the command that prints the effective Helm values.
func Values(v *viper.Viper) *cobra.Command {
	var component string

	cmd := &cobra.Command{
		Use:   "values FILE",
		Short: "Print the Helm values an IstioOperator installs with",
		Long: `Print the effective Helm values of the resolved IstioOperator in FILE.

With --component the values are those of one enabled component or gateway.
With --chart they are reduced to what the chart's values schema declares and
validated against it.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(v)
			if err != nil {
				return err
			}
			return handlers.Values(cmd.Context(), cmd.OutOrStdout(), handlers.ValuesOptions{
				Path:      args[0],
				Component: component,
				Chart:     v.GetString(keyChart),
				Format:    format,
			})
		},
	}

	cmd.Flags().StringVar(&component, "component", "", "component spec name or gateway name")
	cmd.Flags().String(keyChart, "", "chart directory or archive to filter and validate against")
	_ = v.BindPFlag(keyChart, cmd.Flags().Lookup(keyChart))

	return cmd
}

// Components returns the command that lists the enabled install units.
func Components() *cobra.Command {
	return &cobra.Command{
		Use:   "components FILE",
		Short: "List the components an IstioOperator enables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Components(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}
