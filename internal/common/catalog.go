package common

import (
	"fmt"
	"os"
	"path/filepath"

	"profitbliss-backend-go/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

type PlanConfig struct {
	Name         string `yaml:"name"`
	Stake        string `yaml:"stake"`
	DailyRoi     string `yaml:"daily_roi"`
	DurationDays int    `yaml:"duration_days"`
}

type PlanCatalog struct {
	Plans []PlanConfig `yaml:"plans"`
}

// LoadPlanCatalog reads the plan catalog from a yaml file. A missing file is
// not an error; callers fall back to DefaultCatalog.
func LoadPlanCatalog(plansFile string) ([]models.Plan, error) {
	var plansPath string
	if filepath.IsAbs(plansFile) {
		plansPath = plansFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		plansPath = filepath.Join(wd, plansFile)
	}

	data, err := os.ReadFile(plansPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", plansFile, err)
	}

	var catalog PlanCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", plansFile, err)
	}

	plans := make([]models.Plan, 0, len(catalog.Plans))
	for i, pc := range catalog.Plans {
		if pc.Name == "" {
			return nil, fmt.Errorf("plan at index %d missing name", i)
		}
		stake, err := decimal.NewFromString(pc.Stake)
		if err != nil {
			return nil, fmt.Errorf("plan %s: invalid stake %q: %w", pc.Name, pc.Stake, err)
		}
		dailyRoi, err := decimal.NewFromString(pc.DailyRoi)
		if err != nil {
			return nil, fmt.Errorf("plan %s: invalid daily_roi %q: %w", pc.Name, pc.DailyRoi, err)
		}
		if pc.DurationDays <= 0 {
			return nil, fmt.Errorf("plan %s: duration_days must be positive", pc.Name)
		}

		plans = append(plans, models.Plan{
			Id:           uuid.New().String(),
			Name:         pc.Name,
			Stake:        stake,
			DailyRoi:     dailyRoi,
			DurationDays: pc.DurationDays,
		})
	}

	return plans, nil
}

// DefaultCatalog returns the built-in plan tiers used when no catalog file
// is present.
func DefaultCatalog() []models.Plan {
	tiers := []struct {
		name     string
		stake    int64
		dailyRoi int64
	}{
		{"Basic", 50, 20},
		{"Gold", 100, 35},
		{"Master", 200, 50},
		{"Premium", 300, 75},
	}

	plans := make([]models.Plan, 0, len(tiers))
	for _, t := range tiers {
		plans = append(plans, models.Plan{
			Id:           uuid.New().String(),
			Name:         t.name,
			Stake:        decimal.NewFromInt(t.stake),
			DailyRoi:     decimal.NewFromInt(t.dailyRoi),
			DurationDays: 30,
		})
	}
	return plans
}
