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
	simInput  model.ProfitInput
	simOutput string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate profit across margin and discount scenarios",
	Long:  "Prices a cost base (material cost plus hours at an hourly rate) through seven alternative margin/discount scenarios, so an offer can be compared against its floor and ceiling.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simInput.TotalHours <= 0 {
			return eris.New("simulate: --hours must be positive")
		}
		if simInput.HourlyRate == 0 {
			simInput.HourlyRate = cfg.Rates.HourlyRate
		}

		sim := engine.SimulateProfit(simInput)

		switch simOutput {
		case "table":
			printSimulationTable(sim)
			return nil
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sim)
		default:
			return eris.Errorf("unknown output format %q (json or table)", simOutput)
		}
	},
}

func init() {
	simulateCmd.Flags().Float64Var(&simInput.MaterialCost, "material", 0, "material cost, kr.")
	simulateCmd.Flags().Float64Var(&simInput.TotalHours, "hours", 0, "total labor hours")
	simulateCmd.Flags().Float64Var(&simInput.HourlyRate, "rate", 0, "hourly rate, kr. (default from config)")
	simulateCmd.Flags().Float64Var(&simInput.OverheadPct, "overhead", 0, "overhead percentage (default 12)")
	simulateCmd.Flags().Float64Var(&simInput.RiskPct, "risk", 0, "risk percentage (default 3)")
	simulateCmd.Flags().Float64Var(&simInput.MarginPct, "margin", 0, "margin percentage for the standard scenarios (default 25)")
	simulateCmd.Flags().Float64Var(&simInput.DiscountPct, "discount", 0, "discount percentage for the margin scenarios")
	simulateCmd.Flags().Float64Var(&simInput.VATPct, "vat", 0, "VAT percentage (default 25)")
	simulateCmd.Flags().StringVarP(&simOutput, "output", "o", "table", "output format: json or table")
	rootCmd.AddCommand(simulateCmd)
}

func printSimulationTable(sim model.ProfitSimulation) {
	danish.Printf("Cost price: %.2f kr.  Sales basis: %.2f kr.  (%.1f h at %.2f kr./h)\n\n",
		sim.CostPrice, sim.SalesBasis, sim.TotalHours, sim.HourlyRate)

	fmt.Printf("%-22s %8s %10s %14s %10s %10s\n",
		"Scenario", "Margin", "Discount", "Final amount", "DB %", "DB/hour")
	for _, sc := range sim.Scenarios {
		danish.Printf("%-22s %7.1f%% %9.1f%% %14.2f %9.2f%% %10.2f\n",
			sc.Name, sc.MarginPct, sc.DiscountPct,
			sc.Price.FinalAmount, sc.Price.DBPercentage, sc.Price.DBPerHour)
	}
}
