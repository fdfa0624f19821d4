package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catalog-locator/app/services"
)

var (
	seedFile   string
	seedDryRun bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed provinces and districts into MongoDB",
	Long: `Validates a location dataset file (JSON with "provinces" and "districts")
and upserts it into MongoDB. The dataset is read back after writing.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "location dataset JSON file")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "validate only, do not write")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ds, err := services.ReadLocationDataset(seedFile)
	if err != nil {
		return err
	}

	validation := services.ValidateLocationDataset(ds)
	printValidation(cmd, validation)
	if !validation.Passed {
		return fmt.Errorf("%w: %d lỗi", services.ErrInvalidDataset, len(validation.Errors))
	}
	if seedDryRun {
		cmd.Println("Dry run: không ghi dữ liệu.")
		return nil
	}

	ctx := context.Background()
	db, closeFn, err := connectMongo(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	store := services.NewMongoLocationSource(db)
	admin := services.NewAdminService(store, services.NewLocationService(store, logger), nil, nil, logger)

	result, err := admin.SeedLocations(ctx, ds, false)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDataset) {
			return err
		}
		return fmt.Errorf("seed thất bại: %w", err)
	}
	cmd.Printf("Đã ghi %d documents (%d ms)\n", result.DocumentsWritten, result.ProcessingTimeMs)
	return nil
}

func printValidation(cmd *cobra.Command, v *services.DatasetValidation) {
	cmd.Printf("Provinces: %d, districts: %d\n", v.Provinces, v.Districts)
	for _, w := range v.Warnings {
		cmd.Println("  warning:", w)
	}
	for _, e := range v.Errors {
		cmd.Println("  error:", e)
	}
}
