package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/metro-proximity/internal/proximity"
	"github.com/sells-group/metro-proximity/internal/region"
)

var (
	checkLat     float64
	checkLon     float64
	checkAddress string
	checkRadius  float64
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a one-shot proximity check",
	Long:  "Checks a coordinate pair (or a geocoded address) against the loaded metro boundaries and prints the JSON result.",
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, lon := checkLat, checkLon

		if checkAddress != "" {
			geocoder, closeGeocoder, err := buildGeocoder()
			if err != nil {
				return eris.Wrap(err, "build geocoder")
			}
			if closeGeocoder != nil {
				defer closeGeocoder()
			}
			result, err := geocoder.Geocode(cmd.Context(), checkAddress)
			if err != nil {
				return eris.Wrap(err, "geocode address")
			}
			if !result.Matched {
				return eris.Errorf("address not found: %s", checkAddress)
			}
			lat, lon = result.Latitude, result.Longitude
			zap.L().Info("address geocoded",
				zap.String("address", checkAddress),
				zap.Float64("lat", lat),
				zap.Float64("lon", lon),
				zap.String("source", result.Source),
			)
		} else if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
			return eris.New("provide --lat and --lon, or --address")
		}

		radius := checkRadius
		if radius == 0 {
			radius = cfg.Proximity.DefaultRadiusMiles
		}

		manager := region.NewManager(cfg.Data.ShapefilePath, cfg.Data.TargetListPath)
		engine := proximity.NewEngine(manager)

		result, err := engine.Check(lat, lon, radius)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	checkCmd.Flags().Float64Var(&checkLat, "lat", 0, "latitude")
	checkCmd.Flags().Float64Var(&checkLon, "lon", 0, "longitude")
	checkCmd.Flags().StringVar(&checkAddress, "address", "", "free-text address to geocode instead of lat/lon")
	checkCmd.Flags().Float64Var(&checkRadius, "max-distance", 0, "radius in miles (default from config)")
	rootCmd.AddCommand(checkCmd)
}
