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

	"github.com/networking-incubator/istio-install-api/cmd/iopctl/handlers"
)

// Status returns the command that prints an install status.
func Status() *cobra.Command {
	var install string

	cmd := &cobra.Command{
		Use:   "status FILE",
		Short: "Print an install status and the conditions it implies",
		Long: `Print the InstallStatus in FILE.

FILE may hold a bare InstallStatus or an IstioOperator document with a status.
A missing overall status is computed from the component statuses. With
--install the status is recorded against that IstioOperator first.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Status(cmd.Context(), cmd.OutOrStdout(), handlers.StatusOptions{
				Path:    args[0],
				Install: install,
			})
		},
	}

	cmd.Flags().StringVar(&install, "install", "", "IstioOperator file the status reports on")

	return cmd
}
