package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/elgrid-dk/calc-cli/internal/export"
	"github.com/elgrid-dk/calc-cli/internal/model"
)

var (
	calcOutput      string
	calcXLSXPath    string
	calcProjectName string
	calcSave        bool
)

// danish prints amounts the way a DK offer does: 13.052,50.
var danish = message.NewPrinter(language.Danish)

var calcCmd = &cobra.Command{
	Use:   "calc <project-file>",
	Short: "Calculate a full project estimate",
	Long:  "Reads a project file (YAML or JSON) describing rooms and their electrical points, and produces a priced estimate with panel sizing, cable summary, risk analysis and compliance notices.",
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

		if calcSave {
			st, err := initStore(ctx)
			if err != nil {
				return eris.Wrap(err, "open store")
			}
			defer st.Close()
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
			saved, err := st.SaveEstimate(ctx, calcProjectName, input, estimate)
			if err != nil {
				return eris.Wrap(err, "save estimate")
			}
			zap.L().Info("estimate saved", zap.String("id", saved.ID))
		}

		if calcXLSXPath != "" {
			if err := export.WriteXLSX(calcProjectName, estimate, calcXLSXPath); err != nil {
				return err
			}
			zap.L().Info("workbook written", zap.String("path", calcXLSXPath))
		}

		switch calcOutput {
		case "table":
			printEstimateTable(calcProjectName, estimate)
			return nil
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(estimate)
		default:
			return eris.Errorf("unknown output format %q (json or table)", calcOutput)
		}
	},
}

func init() {
	calcCmd.Flags().StringVarP(&calcOutput, "output", "o", "json", "output format: json or table")
	calcCmd.Flags().StringVar(&calcXLSXPath, "xlsx", "", "also write an XLSX workbook to this path")
	calcCmd.Flags().StringVar(&calcProjectName, "name", "project", "project name used in saved estimates and exports")
	calcCmd.Flags().BoolVar(&calcSave, "save", false, "persist the estimate to the store")
	rootCmd.AddCommand(calcCmd)
}

// readProjectInput parses a YAML or JSON project file.
func readProjectInput(path string) (model.ProjectInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.ProjectInput{}, eris.Wrapf(err, "read project file %s", path)
	}

	var input model.ProjectInput
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(raw, &input)
	} else {
		err = yaml.Unmarshal(raw, &input)
	}
	if err != nil {
		return model.ProjectInput{}, eris.Wrapf(err, "parse project file %s", path)
	}

	if len(input.Rooms) == 0 {
		return model.ProjectInput{}, eris.Errorf("project file %s has no rooms", path)
	}
	return input, nil
}

func printEstimateTable(name string, est model.ProjectEstimate) {
	fmt.Printf("Project: %s\n\n", name)

	fmt.Println("Rooms:")
	for _, room := range est.Rooms {
		danish.Printf("  %-20s %3d points  %8.2f h  %12.2f kr.\n",
			room.RoomName, room.TotalPoints(), room.TotalTimeSeconds/3600, room.TotalCost)
	}
	danish.Printf("\nPanel: %d groups (%d RCD)  %.2f kr.\n",
		est.Panel.TotalGroupsNeeded, est.Panel.RCDGroupsNeeded, est.Panel.EstimatedPanelCost)
	danish.Printf("Cables: %.1f m  %.2f kr.\n", est.Cables.TotalMeters, est.Cables.TotalCost)

	fmt.Println("\nPricing:")
	p := est.Price
	danish.Printf("  Cost price            %12.2f kr.\n", p.CostPrice)
	danish.Printf("  Sales basis           %12.2f kr.\n", p.SalesBasis)
	danish.Printf("  Sale price excl. VAT  %12.2f kr.\n", p.SalePriceExVAT)
	if p.DiscountAmount > 0 {
		danish.Printf("  Discount              %12.2f kr.\n", p.DiscountAmount)
	}
	danish.Printf("  VAT                   %12.2f kr.\n", p.VATAmount)
	danish.Printf("  Final amount          %12.2f kr.\n", p.FinalAmount)
	danish.Printf("  DB %.2f%%  (%.2f kr./h)\n", p.DBPercentage, p.DBPerHour)

	fmt.Printf("\nRisk: %d/5 (%s), recommended buffer %.0f%%\n",
		est.Risk.RiskScore, est.Risk.RiskLevel, est.Risk.RecommendedBufferPct)

	for _, w := range est.Warnings {
		fmt.Println("  ! " + w)
	}
	for _, obs := range est.ObsPoints {
		fmt.Println("  " + obs)
	}
}
