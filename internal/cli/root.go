package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/kolah/swagcheck/internal/config"
	"github.com/kolah/swagcheck/internal/loader"
	"github.com/kolah/swagcheck/internal/model"
	"github.com/kolah/swagcheck/internal/template"
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "swagcheck",
		Short:         "Build request templates from Swagger/OpenAPI documents",
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	config.BindFlags(root)
	root.AddCommand(TemplateCommand(), OperationsCommand())

	return root
}

// session is everything a command needs after the document is templated.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	doc    *model.Document
	api    *template.APITemplate
}

func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func load(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return nil, err
	}

	result, err := loader.LoadFile(cfg.Spec, loader.WithValidation(cfg.Loader.Validate))
	if err != nil {
		return nil, fmt.Errorf("loading spec: %w", err)
	}
	for _, w := range result.Warnings {
		logger.Warn(w)
	}

	doc, err := loader.Transform(result)
	if err != nil {
		return nil, fmt.Errorf("transforming spec: %w", err)
	}
	logger.Info("loaded document",
		"version", result.Version,
		"title", doc.Info.Title,
		"paths", len(doc.Paths),
		"schemas", len(doc.Schemas),
	)

	api, err := template.New(doc,
		template.WithLogger(logger),
		template.WithReservedParameters(cfg.Template.ReservedParameters...),
		template.WithConcurrency(cfg.Template.Concurrency),
	)
	if err != nil {
		return nil, fmt.Errorf("building template: %w", err)
	}

	return &session{cfg: cfg, logger: logger, doc: doc, api: api}, nil
}
