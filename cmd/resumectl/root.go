package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"resume-builder/internal/analyses"
	"resume-builder/internal/bootstrap"
	"resume-builder/internal/coverletters"
	"resume-builder/internal/extract"
	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/config"
)

// cliUser owns history and usage for commands run locally.
const cliUser = "cli:local"

type options struct {
	provider string
	model    string
	timeout  time.Duration
}

type services struct {
	analyses     *analyses.Service
	coverLetters *coverletters.Service
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "resumectl",
		Short:         "Extract, score, tailor and export resumes from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.provider, "provider", "", "LLM provider (openai, gemini, none); defaults to LLM_PROVIDER")
	root.PersistentFlags().StringVar(&opts.model, "model", "", "LLM model; defaults to LLM_MODEL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 3*time.Minute, "overall command timeout")

	root.AddCommand(
		newExtractCmd(),
		newParseCmd(opts),
		newCompareCmd(opts),
		newTailorCmd(opts),
		newCoverLetterCmd(opts),
		newPDFCmd(),
	)
	return root
}

// buildServices wires the LLM-backed services without storage or usage limits.
func (o *options) buildServices(ctx context.Context) (services, error) {
	cfg := config.Load()
	if o.provider != "" {
		cfg.LLMProvider = o.provider
	}
	if o.model != "" {
		cfg.LLMModel = o.model
	}
	// Credentials are required here even in dev.
	cfg.Env = "production"
	client, err := bootstrap.BuildLLM(ctx, cfg)
	if err != nil {
		return services{}, err
	}
	runner := &analyses.Runner{LLM: client}
	return services{
		analyses:     &analyses.Service{Runner: runner, Provider: cfg.LLMProvider, Model: cfg.LLMModel},
		coverLetters: coverletters.NewService(runner),
	}, nil
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func loadProfile(path string) (profiles.ProfileData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return profiles.ProfileData{}, fmt.Errorf("read profile: %w", err)
	}
	var p profiles.ProfileData
	if err := json.Unmarshal(data, &p); err != nil {
		return profiles.ProfileData{}, fmt.Errorf("%w: %s", profiles.ErrInvalidJSON, path)
	}
	return profiles.Normalize(p), nil
}

// readText reads a file, or stdin for "-". what names the input in errors.
func readText(path, what string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%s is required", what)
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", what, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func extractFile(ctx context.Context, path string) (extract.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return extract.Result{}, err
	}
	return extract.Extract(ctx, data, "", filepath.Base(path))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeOutput(cmd *cobra.Command, out string, data []byte) error {
	if out == "" || out == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(data))
	return nil
}
