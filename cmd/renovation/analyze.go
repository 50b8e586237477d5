package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/markremodeling/renovation"
	"github.com/markremodeling/renovation/internal/utils"
	"github.com/markremodeling/renovation/pkg/assistant"
	"github.com/markremodeling/renovation/pkg/catalog"
	"github.com/markremodeling/renovation/pkg/processing"
)

var (
	analyzeStyle string
	analyzeOut   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image path or URL>",
	Short: "Estimate room dimensions from a photo with the configured vision model",
	Long: `Send a room photo to the vision model and print the estimated measurements,
description and renovation tips as JSON. With --style a redesigned image of the
room is also generated and written to --out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		source := args[0]

		aiClient, err := renovation.NewClient(ctx, cfg.AI)
		if err != nil {
			return fmt.Errorf("failed to create AI client: %w", err)
		}
		a := assistant.New(aiClient, cfg.AI.Models, catalog.DefaultCompany())
		proc := processing.NewProcessor()

		data, err := proc.LoadSource(source)
		if err != nil {
			return err
		}
		img, err := proc.PrepareForModel(data)
		if err != nil {
			return err
		}

		start := time.Now()
		analysis, err := a.AnalyzePhoto(ctx, img)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		logger.Debug("photo analyzed",
			zap.String("source", source),
			zap.String("size", utils.FormatFileSize(int64(len(data)))),
			zap.String("backend", cfg.AI.Backend),
			zap.Duration("took", time.Since(start)),
		)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			return err
		}

		if analyzeStyle == "" {
			return nil
		}
		if analyzeOut == "" {
			return fmt.Errorf("--style requires --out")
		}
		out, err := a.RedesignImage(ctx, analyzeStyle, &img)
		if err != nil {
			return fmt.Errorf("redesign failed: %w", err)
		}
		if err := os.WriteFile(analyzeOut, out.Data, 0o644); err != nil {
			return err
		}
		logger.Info("redesign saved", zap.String("path", analyzeOut), zap.String("mime", out.MIMEType))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeStyle, "style", "", "also generate a redesign in this style (e.g. \"modern farmhouse\")")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "file to write the redesign image to")
	rootCmd.AddCommand(analyzeCmd)
}
