package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/catalog-locator/app/config"
	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/app/services"
	"github.com/catalog-locator/internal/resolver"
)

var (
	auditDataset string
	auditSamples string
	auditJSON    bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Resolve sample geocoder names offline and report match tiers",
	Long: `Runs the location resolver over a file of geocoder samples
(JSON array of {"city_name", "district_name", "expect_province_id", "expect_district_id"})
and prints the tier that decided each match. Transliterated matches are
listed so the fallback can be reviewed.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditDataset, "dataset", "", "location dataset JSON file")
	auditCmd.Flags().StringVar(&auditSamples, "samples", "", "geocoder samples JSON file")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "output report as JSON")
	_ = auditCmd.MarkFlagRequired("dataset")
	_ = auditCmd.MarkFlagRequired("samples")
	rootCmd.AddCommand(auditCmd)
}

// auditSample một mẫu tên do geocoder trả về, kèm kỳ vọng (nếu có)
type auditSample struct {
	CityName         string `json:"city_name"`
	DistrictName     string `json:"district_name"`
	ExpectProvinceID *int   `json:"expect_province_id,omitempty"`
	ExpectDistrictID *int   `json:"expect_district_id,omitempty"`
}

type auditRow struct {
	Sample        auditSample      `json:"sample"`
	ProvinceID    *int             `json:"province_id,omitempty"`
	DistrictID    *int             `json:"district_id,omitempty"`
	ProvinceMatch models.MatchTier `json:"province_match"`
	DistrictMatch models.MatchTier `json:"district_match"`
	Mismatch      bool             `json:"mismatch"`
}

type auditReport struct {
	Rows       []auditRow     `json:"rows"`
	Histogram  map[string]int `json:"histogram"`
	Mismatches int            `json:"mismatches"`
}

func runAudit(cmd *cobra.Command, args []string) error {
	locations := services.NewLocationService(&services.FileLocationSource{Path: auditDataset}, logger)
	if err := locations.Reload(context.Background()); err != nil {
		return err
	}

	samples, err := readSamples(auditSamples)
	if err != nil {
		return err
	}

	res := resolver.NewLocationResolver(config.ResolverOptions())
	report := auditLocations(res, locations, samples)

	if auditJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	printReport(cmd, report)
	return nil
}

func readSamples(path string) ([]auditSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("không đọc được samples %s: %w", path, err)
	}
	var samples []auditSample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("samples không hợp lệ: %w", err)
	}
	return samples, nil
}

// auditLocations resolve từng mẫu, đếm theo "<level>:<tier>"
func auditLocations(res *resolver.LocationResolver, locations *services.LocationService, samples []auditSample) auditReport {
	report := auditReport{
		Rows:      make([]auditRow, 0, len(samples)),
		Histogram: make(map[string]int),
	}
	provinces := locations.Provinces()

	for _, s := range samples {
		loc := res.Resolve(models.GeocodeResult{CityName: s.CityName, DistrictName: s.DistrictName}, provinces, locations.DistrictsOf)
		row := auditRow{
			Sample:        s,
			ProvinceMatch: loc.ProvinceMatch,
			DistrictMatch: loc.DistrictMatch,
		}
		if loc.Province != nil {
			id := loc.Province.ID
			row.ProvinceID = &id
		}
		if loc.District != nil {
			id := loc.District.ID
			row.DistrictID = &id
		}
		row.Mismatch = !sameID(s.ExpectProvinceID, row.ProvinceID) || !sameID(s.ExpectDistrictID, row.DistrictID)
		if row.Mismatch {
			report.Mismatches++
		}

		report.Histogram["province:"+string(loc.ProvinceMatch)]++
		report.Histogram["district:"+string(loc.DistrictMatch)]++
		report.Rows = append(report.Rows, row)
	}
	return report
}

// sameID nil ở expect nghĩa là không kiểm tra
func sameID(expect, got *int) bool {
	if expect == nil {
		return true
	}
	if *expect < 0 {
		return got == nil
	}
	return got != nil && *got == *expect
}

func printReport(cmd *cobra.Command, report auditReport) {
	for _, row := range report.Rows {
		flag := ""
		if row.Mismatch {
			flag = "  MISMATCH"
		}
		cmd.Printf("%-20q %-20q province=%s(%s) district=%s(%s)%s\n",
			row.Sample.CityName, row.Sample.DistrictName,
			formatID(row.ProvinceID), row.ProvinceMatch,
			formatID(row.DistrictID), row.DistrictMatch, flag)
	}

	keys := make([]string, 0, len(report.Histogram))
	for k := range report.Histogram {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	cmd.Println()
	for _, k := range keys {
		cmd.Printf("%-28s %d\n", k, report.Histogram[k])
	}
	cmd.Printf("mismatches: %d/%d\n", report.Mismatches, len(report.Rows))
}

func formatID(id *int) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprint(*id)
}
