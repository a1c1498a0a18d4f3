package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmcode/hotel-audit/pkg/auditor"
	"github.com/helmcode/hotel-audit/pkg/config"
	"github.com/helmcode/hotel-audit/pkg/deeplink"
	"github.com/helmcode/hotel-audit/pkg/logging"
	"github.com/helmcode/hotel-audit/pkg/server"
	"github.com/helmcode/hotel-audit/pkg/session"
)

var (
	serveAddr        string
	serveOrigins     []string
	serveVerbose     bool
	serveLLMProvider string
	serveLLMModel    string
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the audit workflow over HTTP",
		Long: `Start a JSON HTTP API that runs audits and serves the current report,
its filtered views, share links and Markdown export.

Examples:
  # Listen on the default address (LISTEN_ADDR or :8080)
  hotel-audit serve

  # Allow a local frontend
  hotel-audit serve --addr :9090 --cors-origin http://localhost:5173`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides LISTEN_ADDR)")
	cmd.Flags().StringSliceVar(&serveOrigins, "cors-origin", []string{}, "Origins allowed to call the API (repeatable)")
	cmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Debug logging")
	cmd.Flags().StringVar(&serveLLMProvider, "provider", "", "LLM provider (gemini, claude, openai). Defaults to LLM_PROVIDER or gemini")
	cmd.Flags().StringVar(&serveLLMModel, "model", "", "LLM model to use (overrides default)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}

	logger, err := logging.New(serveVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := auditor.NewFromConfig(ctx, cfg, serveLLMProvider, serveLLMModel, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	logger.Info("audit engine ready", zap.String("model", a.Model()))

	links, err := deeplink.ParseURLStore(cfg.PublicURL)
	if err != nil {
		return fmt.Errorf("invalid PUBLIC_URL: %w", err)
	}
	sess := session.New(a, a.Catalog(), session.WithLinks(links), session.WithLogger(logger))

	srv := server.New(sess, server.Options{
		PublicURL:      cfg.PublicURL,
		GeoTimeout:     cfg.GeoTimeout,
		AllowedOrigins: serveOrigins,
		Logger:         logger,
	})
	return srv.ListenAndServe(ctx, cfg.ListenAddr)
}
