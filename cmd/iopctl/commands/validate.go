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

// Validate returns the command that checks IstioOperator manifests.
func Validate() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Decode IstioOperator manifests and check their profiles",
		Long: `Decode every IstioOperator document in the given files.

Each document must use apiVersion install.istio.io/v1alpha1 and name a known
profile. Documents of other kinds are skipped. All files are checked before
the command fails.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Validate(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
}
