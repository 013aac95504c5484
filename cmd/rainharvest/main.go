package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rainwise/rainharvest/internal/engine"
	"github.com/rainwise/rainharvest/internal/groundwater"
	"github.com/rainwise/rainharvest/internal/rainfall"
	"github.com/rainwise/rainharvest/internal/region"
	"github.com/rainwise/rainharvest/internal/soil"
	"github.com/rainwise/rainharvest/internal/store"
)

var (
	cfgFile string
	dbPath  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rainharvest",
		Short: "RainHarvest - Rainwater harvesting feasibility calculator",
		Long: `RainHarvest estimates how much rainwater a property can harvest,
what a suitable system costs, and whether the investment pays off,
using public rainfall and soil data.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rainharvest/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default is $HOME/.rainharvest/rainharvest.db)")

	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(siteCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".rainharvest")
		os.MkdirAll(configDir, 0755)

		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.ReadInConfig()

	if dbPath == "" {
		dbPath = viper.GetString("db")
	}
	if dbPath == "" {
		home, _ := os.UserHomeDir()
		dbPath = filepath.Join(home, ".rainharvest", "rainharvest.db")
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the RainHarvest database",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			fmt.Println("✓ Initialized RainHarvest")
			fmt.Printf("Database: %s\n", dbPath)
			fmt.Printf("Regions: %v\n", region.Names())
			fmt.Println("\nNext steps:")
			fmt.Println("  1. Save a site: rainharvest site add")
			fmt.Println("  2. Run an analysis: rainharvest analyze")

			return nil
		},
	}
}

func analyzeCmd() *cobra.Command {
	var (
		siteID      string
		regionName  string
		area        float64
		household   int
		garden      float64
		roof        string
		soilType    string
		tariffClass string
		lat, lon    float64
		save        bool
		format      string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a feasibility analysis for a site",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			st, err := store.NewStore(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer st.Close()

			params := engine.SiteParameters{
				CatchmentAreaM2: area,
				HouseholdSize:   household,
				GardenAreaM2:    garden,
				RoofMaterial:    roof,
				SoilType:        soilType,
				TariffClass:     tariffClass,
			}

			if siteID != "" {
				site, err := st.GetSite(siteID)
				if err != nil {
					return fmt.Errorf("site %q not found (run 'rainharvest site add' first)", siteID)
				}
				params = site.Params
				if !cmd.Flags().Changed("lat") {
					lat, lon = site.Latitude, site.Longitude
				}
				if regionName == "" {
					regionName = site.Region
				}
			}
			if regionName == "" {
				regionName = "us-standard"
			}

			cfg, err := region.Get(regionName)
			if err != nil {
				return err
			}

			input := engine.AnalysisInput{Site: params}
			input.Rainfall, input.RainfallSrc = resolveRainfall(ctx, st, lat, lon)
			if params.SoilType == "" {
				input.Site.SoilType, input.SoilSrc = resolveSoil(ctx, st, lat, lon)
			} else {
				input.SoilSrc = engine.Provenance{Source: "User Supplied", Confidence: engine.ConfidenceMedium}
			}
			gw := groundwater.Lookup(lat, lon)
			input.Groundwater = &gw

			report, err := engine.Analyze(cfg, input)
			if err != nil {
				return err
			}

			if save {
				id, err := st.SaveReport(siteID, report)
				if err != nil {
					return fmt.Errorf("saving report: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Saved report %s\n", id)
			}

			switch format {
			case "flat":
				for _, entry := range report.Flatten() {
					fmt.Printf("%-36s %s\n", entry.Key, entry.Value)
				}
				return nil
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			default:
				return fmt.Errorf("unknown format %q (use json or flat)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&siteID, "site", "s", "", "Saved site ID")
	cmd.Flags().StringVarP(&regionName, "region", "r", "", "Regional config (us-standard, in-standard)")
	cmd.Flags().Float64VarP(&area, "area", "a", 0, "Catchment area in m2")
	cmd.Flags().IntVar(&household, "household", 4, "Household size")
	cmd.Flags().Float64Var(&garden, "garden", 0, "Garden area in m2")
	cmd.Flags().StringVar(&roof, "roof", "", "Roof material (Concrete, Metal, Tiled, Thatched, Asbestos, Slate)")
	cmd.Flags().StringVar(&soilType, "soil", "", "Soil type (skips the soil provider)")
	cmd.Flags().StringVar(&tariffClass, "tariff", "", "Water tariff class")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Site latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Site longitude")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the report")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json or flat)")

	return cmd
}

// resolveRainfall consults the cache before the provider.
func resolveRainfall(ctx context.Context, st *store.Store, lat, lon float64) (engine.RainfallSeries, engine.Provenance) {
	if series, src, err := st.GetCachedRainfall(lat, lon); err == nil {
		return series, src
	}
	series, src := rainfall.NewClient().Resolve(ctx, lat, lon)
	st.CacheRainfall(lat, lon, series, src)
	return series, src
}

func resolveSoil(ctx context.Context, st *store.Store, lat, lon float64) (string, engine.Provenance) {
	if soilType, src, err := st.GetCachedSoil(lat, lon); err == nil {
		return soilType, src
	}
	soilType, src := soil.NewClient().Resolve(ctx, lat, lon)
	st.CacheSoil(lat, lon, soilType, src)
	return soilType, src
}

func fetchCmd() *cobra.Command {
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch provider data for a location",
	}
	cmd.PersistentFlags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.PersistentFlags().Float64Var(&lon, "lon", 0, "Longitude")

	cmd.AddCommand(&cobra.Command{
		Use:   "rainfall",
		Short: "Fetch the monthly rainfall series",
		RunE: func(cmd *cobra.Command, args []string) error {
			series, src := rainfall.NewClient().Resolve(context.Background(), lat, lon)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"monthly_mm": series,
				"annual_mm":  series.AnnualMM(),
				"provenance": src,
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "soil",
		Short: "Fetch the soil classification and groundwater profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			soilType, src := soil.NewClient().Resolve(context.Background(), lat, lon)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"soil_type":   soilType,
				"provenance":  src,
				"groundwater": groundwater.Lookup(lat, lon),
			})
		},
	})

	return cmd
}

func siteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Manage saved sites",
	}

	cmd.AddCommand(siteAddCmd())
	cmd.AddCommand(siteListCmd())

	return cmd
}

func siteAddCmd() *cobra.Command {
	var (
		name        string
		lat, lon    float64
		regionName  string
		area        float64
		household   int
		garden      float64
		roof        string
		soilType    string
		tariffClass string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a new site",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			site := &store.Site{
				Name:      name,
				Latitude:  lat,
				Longitude: lon,
				Region:    regionName,
				Params: engine.SiteParameters{
					CatchmentAreaM2: area,
					HouseholdSize:   household,
					GardenAreaM2:    garden,
					RoofMaterial:    roof,
					SoilType:        soilType,
					TariffClass:     tariffClass,
				},
			}
			if err := site.Params.Validate(); err != nil {
				return err
			}
			if err := st.SaveSite(site); err != nil {
				return err
			}

			fmt.Printf("✓ Saved site: %s\n", name)
			fmt.Printf("  ID: %s\n", site.ID)
			fmt.Printf("  Location: %.4f, %.4f\n", lat, lon)
			fmt.Printf("  Catchment: %.0f m2\n", area)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Site name (required)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude")
	cmd.Flags().StringVarP(&regionName, "region", "r", "us-standard", "Regional config")
	cmd.Flags().Float64VarP(&area, "area", "a", 0, "Catchment area in m2 (required)")
	cmd.Flags().IntVar(&household, "household", 4, "Household size")
	cmd.Flags().Float64Var(&garden, "garden", 0, "Garden area in m2")
	cmd.Flags().StringVar(&roof, "roof", "", "Roof material")
	cmd.Flags().StringVar(&soilType, "soil", "", "Soil type (empty uses the soil provider)")
	cmd.Flags().StringVar(&tariffClass, "tariff", "", "Water tariff class")

	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("area")

	return cmd
}

func siteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			sites, err := st.ListSites()
			if err != nil {
				return err
			}

			if len(sites) == 0 {
				fmt.Println("No sites saved")
				return nil
			}

			fmt.Printf("%-36s %-20s %-12s %10s %10s\n", "ID", "NAME", "REGION", "AREA", "PEOPLE")
			fmt.Println("--------------------------------------------------------------------------------------------")

			for _, site := range sites {
				fmt.Printf("%-36s %-20s %-12s %8.0fm2 %10d\n",
					site.ID, site.Name, site.Region, site.Params.CatchmentAreaM2, site.Params.HouseholdSize)
			}

			return nil
		},
	}
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Manage stored reports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			summaries, err := st.ListReports()
			if err != nil {
				return err
			}

			if len(summaries) == 0 {
				fmt.Println("No reports stored")
				return nil
			}

			fmt.Printf("%-36s %-12s %6s %-20s %s\n", "ID", "REGION", "SCORE", "VERDICT", "CREATED")
			fmt.Println("----------------------------------------------------------------------------------------------------")

			for _, sum := range summaries {
				fmt.Printf("%-36s %-12s %6.0f %-20s %s\n",
					sum.ID, sum.Region, sum.Score, sum.Verdict, sum.CreatedAt.Format("2006-01-02 15:04"))
			}

			return nil
		},
	})

	cmd.AddCommand(reportExportCmd())

	return cmd
}

func reportExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <report-id>",
		Short: "Export a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			report, err := st.GetReport(args[0])
			if err != nil {
				return fmt.Errorf("report %q not found", args[0])
			}

			switch format {
			case "csv":
				fmt.Println("key,value")
				for _, entry := range report.Flatten() {
					fmt.Printf("%s,%s\n", entry.Key, entry.Value)
				}
				return nil
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			default:
				return fmt.Errorf("unknown format %q (use json or csv)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format (csv or json)")

	return cmd
}
