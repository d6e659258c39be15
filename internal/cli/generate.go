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
	"fmt"
	"strings"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
	"github.com/spf13/cobra"
)

// generateOpts holds the flags of the generate command.
type generateOpts struct {
	output  string // output file, the format is taken from the extension
	fit     string // WIDTHxHEIGHT of the preview canvas, one side may be empty
	pattern bool   // print the variant of each cell
}

func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a mosaic and save it",
		Long: `Generate a mosaic with the configured layout and save it. The format is
chosen by the file extension: png, jpg, gif, bmp or tiff.

With --fit the mosaic is scaled to fit into a canvas of the given size, as it
would be shown in a window of that size.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, err := c.newEngine(cmd)
			if err != nil {
				return err
			}
			return runGenerate(cfg, engine, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default from config: "+curvedline.DefaultExportName+")")
	cmd.Flags().StringVar(&opts.fit, "fit", "", "scale into a WIDTHxHEIGHT canvas, WIDTHx keeps the aspect ratio")
	cmd.Flags().BoolVar(&opts.pattern, "pattern", false, "print the variant of each cell")

	return cmd
}

func runGenerate(cfg curvedline.Config, engine *curvedline.Engine, opts *generateOpts) error {
	output := opts.output
	if output == "" {
		output = cfg.Output
	}
	m := engine.Current()
	var img = m.Image()
	if opts.fit != "" {
		width, height, err := curvedline.ParseCanvas(opts.fit, m.Bounds())
		if err != nil {
			return err
		}
		previewer, err := cfg.NewPreviewer()
		if err != nil {
			return err
		}
		if img, err = previewer.Render(m, width, height); err != nil {
			return err
		}
	}
	if err := curvedline.SaveImage(output, img, cfg.EncodeOptions()); err != nil {
		return err
	}

	printSuccess("Generated %s mosaic", strings.ToLower(m.Layout().DisplayString()))
	printFile(output)
	bounds := img.Bounds()
	printKeyValue("size", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()))
	printKeyValue("tile", fmt.Sprintf("%dx%d", m.TileSize(), m.TileSize()))
	if m.Layout() == curvedline.LayoutRandom {
		printKeyValue("seed", fmt.Sprint(engine.RandomSource().Seed()))
	}
	if opts.pattern {
		for _, line := range strings.Split(m.Cells().String(), "\n") {
			printDetail("%s", line)
		}
	}
	return nil
}
