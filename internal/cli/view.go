// Copyright 2022 Ian Parberry
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package cli

import (
	"github.com/spf13/cobra"

	"github.com/Ian-Parberry/findthecurvedlinememe/internal/viewer"
)

func (c *CLI) viewCommand() *cobra.Command {
	opts := viewer.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the mosaic in a window",
		Long: `Show the mosaic in a window. The mosaic is scaled to fit the window and
centered on a white background. Keys: o original layout, r random layout,
s save, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, err := c.newEngine(cmd)
			if err != nil {
				return err
			}
			previewer, err := cfg.NewPreviewer()
			if err != nil {
				return err
			}
			if !changed(cmd, "output") {
				opts.Output = cfg.Output
			}
			opts.Encode = cfg.EncodeOptions()
			return viewer.Run(engine, previewer, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "window width")
	cmd.Flags().IntVar(&opts.Height, "height", opts.Height, "window height")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", opts.Output, "file the s key saves to")

	return cmd
}
