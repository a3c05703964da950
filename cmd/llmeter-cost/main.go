// llmeter-cost projects GPU and storage spend for a serverless LLM
// deployment over a usage horizon and checks it against a budget ceiling.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/llmeter/llmeter/internal/config"
	"github.com/llmeter/llmeter/internal/domain"
	"github.com/llmeter/llmeter/internal/output"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "llmeter-cost: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	days := pflag.Int("days", cfg.Pricing.Days, "projection horizon in days")
	hoursPerDay := pflag.Float64("hours-per-day", cfg.Pricing.HoursPerDay,
		"active GPU-hours per day; may exceed 24 when workers run concurrently")
	gpus := pflag.Int("gpus", cfg.Pricing.NumGPUs, "number of GPUs")
	gpuRate := pflag.Float64("gpu-rate", cfg.Pricing.HourlyRatePerGPU, "hourly USD rate per GPU")
	gpuType := pflag.String("gpu-type", "", "look up the hourly rate for a known GPU type (overrides --gpu-rate)")
	storageGB := pflag.Float64("storage-gb", cfg.Pricing.StorageGB, "network volume size in GB")
	storageRate := pflag.Float64("storage-rate", cfg.Pricing.StorageRatePerGBMonth, "monthly USD rate per GB of storage")
	budget := pflag.Float64("budget", 0, "budget ceiling in USD over the horizon")
	scenarios := pflag.Bool("scenarios", true, "include preset usage scenario analysis")
	detailed := pflag.Bool("detailed", false, "include per-second rates and per-request economics")
	formatFlag := pflag.String("format", "text", "output format (text, json, yaml)")
	pflag.Parse()

	format, err := output.ParseFormat(*formatFlag)
	if err != nil {
		return err
	}

	rate := *gpuRate
	if *gpuType != "" {
		registry := domain.NewInMemoryRateRegistry()
		rate, err = registry.GetRate(context.Background(), *gpuType)
		if err != nil {
			known := registry.KnownTypes(context.Background())
			sort.Strings(known)
			return fmt.Errorf("%w (known types: %s)", err, strings.Join(known, ", "))
		}
	}

	profile := domain.UsageProfile{
		HoursPerDay:           *hoursPerDay,
		Days:                  *days,
		NumGPUs:               *gpus,
		HourlyRatePerGPU:      rate,
		StorageGB:             *storageGB,
		StorageRatePerGBMonth: *storageRate,
	}

	var budgetCeiling *float64
	if pflag.CommandLine.Changed("budget") {
		budgetCeiling = budget
	}

	projection, err := domain.Project(profile, budgetCeiling)
	if err != nil {
		return err
	}

	report := output.CostReport{
		Profile:    profile,
		Projection: projection,
		Budget:     budgetCeiling,
		Revenue:    revenueModel(cfg),
		Detailed:   *detailed,
	}

	if *scenarios {
		for _, scenario := range domain.DefaultScenarios() {
			evaluated, evalErr := domain.EvaluateScenario(profile, scenario, report.Revenue)
			if evalErr != nil {
				return evalErr
			}
			report.Scenarios = append(report.Scenarios, evaluated)
		}
	}

	rendered, err := output.Render(report, format)
	if err != nil {
		return err
	}

	fmt.Println(rendered)
	return nil
}

func revenueModel(cfg *config.Config) domain.RevenueModel {
	return domain.RevenueModel{
		InputPerMillion:  cfg.Revenue.InputPerMillion,
		OutputPerMillion: cfg.Revenue.OutputPerMillion,
		PerRequest:       cfg.Revenue.PerRequest,
		FeePercent:       cfg.Revenue.FeePercent,
		AvgInputTokens:   cfg.Revenue.AvgInputTokens,
		AvgOutputTokens:  cfg.Revenue.AvgOutputTokens,
	}
}
