package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/caremesh/caremesh-cli/internal/export"
)

var (
	exportXLSX    string
	exportGeoJSON string
)

var exportCmd = &cobra.Command{
	Use:   "export <result.json>",
	Short: "Export a saved result as an xlsx workbook or GeoJSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportXLSX == "" && exportGeoJSON == "" {
			return eris.New("at least one of --xlsx or --geojson is required")
		}

		result, err := loadResult(args[0])
		if err != nil {
			return err
		}

		if exportXLSX != "" {
			if err := export.WriteWorkbook(result, exportXLSX); err != nil {
				return err
			}
			zap.L().Info("workbook written", zap.String("path", exportXLSX))
		}

		if exportGeoJSON != "" {
			if err := export.WriteGeoJSONFile(result, exportGeoJSON); err != nil {
				return err
			}
			zap.L().Info("geojson written", zap.String("path", exportGeoJSON))
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "write xlsx workbook to this path")
	exportCmd.Flags().StringVar(&exportGeoJSON, "geojson", "", "write GeoJSON FeatureCollection to this path")
	rootCmd.AddCommand(exportCmd)
}
