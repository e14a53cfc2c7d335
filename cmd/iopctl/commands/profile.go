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

// Profile returns the command group for the built-in profiles.
func Profile(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "List and print the built-in profiles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the built-in profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ProfileList(cmd.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "dump NAME",
		Short: "Print a built-in profile as an IstioOperator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(v)
			if err != nil {
				return err
			}
			return handlers.ProfileDump(cmd.OutOrStdout(), args[0], format)
		},
	})

	return cmd
}
