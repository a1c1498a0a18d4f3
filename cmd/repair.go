package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/helmcode/hotel-audit/pkg/config"
	"github.com/helmcode/hotel-audit/pkg/export"
	"github.com/helmcode/hotel-audit/pkg/formatter"
	"github.com/helmcode/hotel-audit/pkg/model"
	"github.com/helmcode/hotel-audit/pkg/parser"
	"github.com/helmcode/hotel-audit/pkg/repair"
	"github.com/helmcode/hotel-audit/pkg/views"
)

var (
	repairHotel        string
	repairCity         string
	repairType         string
	repairOutputFormat string
	repairVerbose      bool
	repairMetric       string
)

func NewRepairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair FILE",
		Short: "Repair and render a saved model response",
		Long: `Decode a raw model response saved to a file (or - for stdin), repair it into
a complete report and render it, without calling any AI provider.

Examples:
  # Render a saved response
  hotel-audit repair response.json --hotel "Treebo Trend Sapphire" --city Gurgaon

  # Show what was repaired and emit the result as JSON
  cat response.txt | hotel-audit repair - -v -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runRepair,
	}

	cmd.Flags().StringVar(&repairHotel, "hotel", "", "Hotel name used when the response omits it")
	cmd.Flags().StringVar(&repairCity, "city", "", "City used when the response omits it")
	cmd.Flags().StringVarP(&repairType, "type", "t", string(model.NewOnboarding), "Evaluation type (new, existing)")
	cmd.Flags().StringVarP(&repairOutputFormat, "output", "o", "human", "Output format (human, json, yaml, markdown)")
	cmd.Flags().BoolVarP(&repairVerbose, "verbose", "v", false, "List every repair applied")
	cmd.Flags().StringVar(&repairMetric, "metric", string(views.MetricRating), "Comparison chart metric (rating, adr)")

	return cmd
}

func runRepair(cmd *cobra.Command, args []string) error {
	metric, err := views.ParseMetric(repairMetric)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}

	raw, err := readInput(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	payload, err := parser.Decode(string(raw))
	if err != nil {
		printError(err.Error())
		return fmt.Errorf("failed to decode response: %w", err)
	}

	input := model.AuditInput{HotelName: repairHotel, City: repairCity, EvaluationType: model.EvaluationType(repairType)}.Normalized()
	report, notes := repair.Repair(payload, input, cat)
	printSuccess(fmt.Sprintf("Report repaired (%d fixes)", len(notes)))
	if repairVerbose {
		for _, n := range notes {
			fmt.Fprintf(os.Stderr, "   • %s\n", n)
		}
	}

	view := views.Build(report, cat, views.NewCategoryFilter(), metric)
	doc := export.Render(report, cat)
	return formatter.DisplayResults(os.Stdout, view, doc.Markdown(), repairOutputFormat)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
