package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helmcode/hotel-audit/pkg/auditor"
	"github.com/helmcode/hotel-audit/pkg/config"
	"github.com/helmcode/hotel-audit/pkg/deeplink"
	"github.com/helmcode/hotel-audit/pkg/export"
	"github.com/helmcode/hotel-audit/pkg/formatter"
	"github.com/helmcode/hotel-audit/pkg/geo"
	"github.com/helmcode/hotel-audit/pkg/model"
	"github.com/helmcode/hotel-audit/pkg/session"
	"github.com/helmcode/hotel-audit/pkg/views"
)

var (
	auditType         string
	auditLink         string
	auditLat          float64
	auditLng          float64
	auditOutputFormat string
	auditVerbose      bool
	auditLLMProvider  string
	auditLLMModel     string
	auditCategories   []string
	auditMetric       string
	auditExportDir    string
	auditShare        bool
	auditRetries      int
)

func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [HOTEL CITY]",
		Short: "Run a commercial audit of a hotel",
		Long: `Audit a hotel's online distribution, market position and guest sentiment
using a search-grounded AI model, and render the verdict.

Examples:
  # Audit a hotel being considered for onboarding
  hotel-audit audit "Treebo Trend Sapphire" Gurgaon

  # Health report of a hotel already in the network, as JSON
  hotel-audit audit "Treebo Trend Sapphire" Gurgaon --type existing -o json

  # Re-run an audit from a shared link and export it
  hotel-audit audit --link "https://audit.example/?hotel=Treebo+Trend+Sapphire&city=Gurgaon" --export ./reports

  # Compare only budget competitors by ADR
  hotel-audit audit "Treebo Trend Sapphire" Gurgaon --category Budget --metric adr`,
		Args: cobra.RangeArgs(0, 2),
		RunE: runAudit,
	}

	cmd.Flags().StringVarP(&auditType, "type", "t", string(model.NewOnboarding), "Evaluation type (new, existing)")
	cmd.Flags().StringVar(&auditLink, "link", "", "Shared audit link to read the hotel, city and type from")
	cmd.Flags().Float64Var(&auditLat, "lat", 0, "Requester latitude, used to resolve the property on maps")
	cmd.Flags().Float64Var(&auditLng, "lng", 0, "Requester longitude")
	cmd.Flags().StringVarP(&auditOutputFormat, "output", "o", "human", "Output format (human, json, yaml, markdown)")
	cmd.Flags().BoolVarP(&auditVerbose, "verbose", "v", false, "Verbose output")
	cmd.Flags().StringVar(&auditLLMProvider, "provider", "", "LLM provider (gemini, claude, openai). Defaults to LLM_PROVIDER or gemini")
	cmd.Flags().StringVar(&auditLLMModel, "model", "", "LLM model to use (overrides default)")
	cmd.Flags().StringSliceVar(&auditCategories, "category", []string{}, "Competitor categories to show (repeatable)")
	cmd.Flags().StringVar(&auditMetric, "metric", string(views.MetricRating), "Comparison chart metric (rating, adr)")
	cmd.Flags().StringVar(&auditExportDir, "export", "", "Directory to write the Markdown report to")
	cmd.Flags().BoolVar(&auditShare, "share", false, "Print a shareable link to the report")
	cmd.Flags().IntVar(&auditRetries, "retries", 0, "Retries after a network, empty or corrupted response")

	return cmd
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	metric, err := views.ParseMetric(auditMetric)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	input, links, err := auditRequestFromArgs(ctx, cmd, cfg, args)
	if err != nil {
		return err
	}

	logger, err := newLogger(auditVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	printAuditHeader(input)

	s := newSpinner(" Initializing AI client...")
	s.Start()

	a, err := auditor.NewFromConfig(ctx, cfg, auditLLMProvider, auditLLMModel, logger)
	if err != nil {
		s.Stop()
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	s.Stop()
	printSuccess("AI client initialized")
	printLLMInfo(a.Model())

	sess := session.New(a, a.Catalog(), session.WithLinks(links), session.WithLogger(logger))

	s.Suffix = fmt.Sprintf(" Auditing %s, %s (this can take a minute)...", input.HotelName, input.City)
	s.Start()

	report, err := submitWithRetries(ctx, sess, input, auditRetries)
	s.Stop()
	if err != nil {
		printError(auditor.UserMessage(err))
		if auditor.Retryable(err) {
			printHint("Run the same command again, or pass --retries, to retry this audit")
		}
		return fmt.Errorf("audit failed: %w", err)
	}
	printSuccess("Audit complete")

	for _, c := range auditCategories {
		sess.ToggleCategory(c)
	}
	sess.SetMetric(metric)

	view, err := sess.View()
	if err != nil {
		return err
	}

	doc := export.Render(report, a.Catalog())
	if err := formatter.DisplayResults(os.Stdout, view, doc.Markdown(), auditOutputFormat); err != nil {
		return fmt.Errorf("failed to display report: %w", err)
	}

	if auditExportDir != "" {
		path, err := doc.WriteFile(auditExportDir)
		if err != nil {
			return err
		}
		printSuccess("Report exported to " + path)
	}

	if auditShare {
		share, err := deeplink.NewShare(cfg.PublicURL, report)
		if err != nil {
			return fmt.Errorf("failed to build share link: %w", err)
		}
		printSuccess(fmt.Sprintf("%s: %s", share.Title, share.URL))
	}

	return nil
}

// auditRequestFromArgs reads the request from the positional arguments or
// from --link. The returned store is where the session records the request.
func auditRequestFromArgs(ctx context.Context, cmd *cobra.Command, cfg *config.Config, args []string) (model.AuditInput, *deeplink.URLStore, error) {
	var input model.AuditInput
	var links *deeplink.URLStore
	var err error

	switch {
	case auditLink != "":
		links, err = deeplink.ParseURLStore(auditLink)
		if err != nil {
			return input, nil, fmt.Errorf("invalid --link: %w", err)
		}
		var ok bool
		input, ok = deeplink.Read(links)
		if !ok {
			return input, nil, fmt.Errorf("link %q has no hotel and city", auditLink)
		}
	case len(args) == 2:
		links, err = deeplink.ParseURLStore(cfg.PublicURL)
		if err != nil {
			return input, nil, fmt.Errorf("invalid PUBLIC_URL: %w", err)
		}
		evalType, ok := model.ParseEvaluationType(auditType)
		if !ok {
			return input, nil, fmt.Errorf("unknown evaluation type %q (use new or existing)", auditType)
		}
		input = model.AuditInput{HotelName: args[0], City: args[1], EvaluationType: evalType}
	default:
		return input, nil, fmt.Errorf("specify HOTEL and CITY, or use --link")
	}

	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
		hint := &model.LocationHint{Latitude: auditLat, Longitude: auditLng}
		input.Location = geo.Resolve(ctx, geo.Static{Hint: hint}, cfg.GeoTimeout)
		if input.Location == nil {
			return input, nil, fmt.Errorf("invalid location %.5f, %.5f", auditLat, auditLng)
		}
	}

	return input, links, nil
}

func submitWithRetries(ctx context.Context, sess *session.Session, input model.AuditInput, retries int) (*model.Report, error) {
	report, err := sess.Submit(ctx, input)
	for attempt := 1; err != nil && auditor.Retryable(err) && attempt <= retries; attempt++ {
		printError(auditor.UserMessage(err))
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
		report, err = sess.Retry(ctx)
	}
	return report, err
}

func printAuditHeader(input model.AuditInput) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(os.Stderr)
	cyan.Fprintln(os.Stderr, "🏨 Hotel Commercial Auditor")
	fmt.Fprintf(os.Stderr, "📝 Hotel: %s\n", input.HotelName)
	fmt.Fprintf(os.Stderr, "📍 City: %s\n", input.City)
	fmt.Fprintf(os.Stderr, "📋 Evaluation: %s\n", input.Normalized().EvaluationType)
	if input.Location != nil {
		fmt.Fprintf(os.Stderr, "🧭 Near: %.5f, %.5f\n", input.Location.Latitude, input.Location.Longitude)
	}
	fmt.Fprintln(os.Stderr)
}
