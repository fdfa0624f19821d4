package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/catalog-locator/app/config"
	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/internal/search"
)

var indexFile string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Load a business catalog JSON file into Meilisearch",
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexFile, "file", "f", "", "business catalog JSON file")
	_ = indexCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(indexFile)
	if err != nil {
		return fmt.Errorf("không đọc được %s: %w", indexFile, err)
	}
	var businesses []models.BusinessRecord
	if err := json.Unmarshal(data, &businesses); err != nil {
		return fmt.Errorf("catalog không hợp lệ: %w", err)
	}

	index, err := search.NewBusinessIndex(search.SearchConfig{
		Host:      viper.GetString("meilisearch.url"),
		APIKey:    viper.GetString("meilisearch.master_key"),
		IndexName: config.C.Catalog.MeiliIndex,
		MaxFetch:  config.C.Catalog.MaxFetch,
	}, logger)
	if err != nil {
		return err
	}
	if err := index.EnsureSettings(); err != nil {
		return err
	}
	n, err := index.IndexBusinesses(businesses)
	if err != nil {
		return err
	}
	cmd.Printf("Đã gửi %d documents vào index %q\n", n, config.C.Catalog.MeiliIndex)
	return nil
}
