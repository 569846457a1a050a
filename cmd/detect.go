package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/elgrid-dk/calc-cli/internal/engine"
	"github.com/elgrid-dk/calc-cli/internal/model"
)

var (
	detectOutput         string
	detectFailOnCritical bool
)

var detectCmd = &cobra.Command{
	Use:   "detect <project-file>",
	Short: "Check a project estimate for anomalies",
	Long:  "Calculates the project and inspects the result for suspicious numbers: implausible hours per point, thin margins, missing RCD protection in wet rooms, and skewed material/total cost ratios.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("calc"); err != nil {
			return err
		}

		input, err := readProjectInput(args[0])
		if err != nil {
			return err
		}

		eng := buildEngine(ctx)
		estimate := eng.CalculateProject(input)

		marginPct := cfg.Rates.MarginPct
		if input.MarginPct != nil {
			marginPct = *input.MarginPct
		}

		anomalies := engine.DetectAnomalies(model.AnomalyInput{
			Rooms:        estimate.Rooms,
			TotalHours:   estimate.TotalLaborHours,
			MarginPct:    marginPct,
			MaterialCost: estimate.TotalMaterialCost,
			TotalCost:    estimate.Price.CostPrice,
		})

		switch detectOutput {
		case "table":
			printAnomalies(anomalies)
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(anomalies); err != nil {
				return err
			}
		default:
			return eris.Errorf("unknown output format %q (json or table)", detectOutput)
		}

		if detectFailOnCritical {
			for _, a := range anomalies {
				if a.Severity == model.SeverityCritical {
					return eris.Errorf("detect: %d anomalies, at least one critical", len(anomalies))
				}
			}
		}
		return nil
	},
}

func init() {
	detectCmd.Flags().StringVarP(&detectOutput, "output", "o", "table", "output format: json or table")
	detectCmd.Flags().BoolVar(&detectFailOnCritical, "fail-on-critical", false, "exit non-zero if a critical anomaly is found")
	rootCmd.AddCommand(detectCmd)
}

func printAnomalies(anomalies []model.Anomaly) {
	if len(anomalies) == 0 {
		fmt.Println("No anomalies found.")
		return
	}
	for _, a := range anomalies {
		fmt.Printf("[%s] %s: %s\n", a.Severity, a.Type, a.Message)
	}
}
