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
	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
	"github.com/spf13/cobra"
)

func (c *CLI) variantsCommand() *cobra.Command {
	var output string
	var gap int

	cmd := &cobra.Command{
		Use:   "variants",
		Short: "Save the eight variants of the tile side by side",
		Long: `Save the eight rotations and mirror images of the tile side by side and
print the average color of each variant. All variants contain the same pixels,
so the average colors are equal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			tile, err := cfg.LoadTile()
			if err != nil {
				return err
			}
			background, err := curvedline.ParseColor(cfg.Background)
			if err != nil {
				return err
			}
			variants, err := curvedline.NewVariantSet(tile)
			if err != nil {
				return err
			}
			if gap < 0 {
				gap = curvedline.IntMax(variants.TileSize()/8, 1)
			}
			sheet := variants.Sheet(gap, background)
			if err := curvedline.SaveImage(output, sheet, cfg.EncodeOptions()); err != nil {
				return err
			}
			printSuccess("Saved %d variants", curvedline.VariantCount)
			printFile(output)
			for _, s := range curvedline.AllSymmetries() {
				avg := curvedline.ComputeAverageColor(variants.Variant(int(s)).Image())
				printKeyValue(s.String(), avg.Hex())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "variants.png", "output file")
	cmd.Flags().IntVar(&gap, "gap", -1, "pixels between the variants (default: tile size / 8)")

	return cmd
}
