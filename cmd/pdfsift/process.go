package main

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfsift/internal/classify"
)

var processCmd = &cobra.Command{
	Use:   "process <pdf>",
	Short: "Classify and process a single PDF",
	Long: `Classify a single PDF as raster or vector and run the matching
pipeline. Outputs are written into <output>/<name>/ where <name> is the
PDF file name without its extension.

Examples:
  pdfsift process scan.pdf
  pdfsift process report.pdf -o results --max-pages 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		path := args[0]
		base := filepath.Base(path)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		outDir := filepath.Join(outputDir, stem)

		result, err := newProcessor(cfg, logger).Process(cmd.Context(), path, outDir)
		if err != nil {
			return err
		}

		switch result.Type {
		case classify.TypeRaster:
			fmt.Printf("%s: raster, %d/%d pages processed, %d images written to %s\n",
				base, result.Raster.PagesProcessed, result.Raster.TotalPages,
				len(result.Raster.ProcessedImages), outDir)
		default:
			fmt.Printf("%s: vector, %d/%d pages with text, %d characters written to %s\n",
				base, result.Vector.PagesWithText, result.Vector.TotalPages,
				result.Vector.TotalTextLength, outDir)
			for _, key := range slices.Sorted(maps.Keys(result.Vector.Metadata)) {
				fmt.Printf("  %s: %s\n", key, result.Vector.Metadata[key])
			}
		}
		return nil
	},
}
