// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the namingpaper CLI: it renames
// academic-paper PDF files using AI-extracted metadata.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/namingpaper/internal/provider"
	"github.com/pdiddy/namingpaper/internal/secrets"
	"github.com/pdiddy/namingpaper/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ and the environment.
var loadedSecrets map[string]string

// rootCmd is the base command for the namingpaper CLI.
var rootCmd = &cobra.Command{
	Use:   "namingpaper",
	Short: "Rename academic-paper PDFs using AI-extracted metadata",
	Long: `namingpaper extracts author, year, journal, and title information from
academic-paper PDFs with an AI backend (Claude, OpenAI, Gemini, or a local
Ollama server) and renames the files to a consistent, readable layout:

  Fama and French, (1993, JFE), Common risk factors in the returns....pdf

Single files go through the rename command; whole directories through
batch. Both default to a dry run and only touch the filesystem with
--execute.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		secrets.MergeEnv(s, provider.SecretAnthropic, provider.SecretOpenAI, provider.SecretGemini)
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./namingpaper.yaml or ~/.config/namingpaper/namingpaper.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("namingpaper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "namingpaper"))
		}
	}

	viper.SetEnvPrefix("NAMINGPAPER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// buildConfig materializes the viper state into an explicit Config passed by
// value into the pipeline.
func buildConfig() types.Config {
	cfg := types.Config{
		Format: types.FormatConfig{
			MaxAuthors:        viper.GetInt("format.max_authors"),
			MaxFilenameLength: viper.GetInt("format.max_filename_length"),
			MaxTitleWords:     viper.GetInt("format.max_title_words"),
		},
		Extraction: types.ExtractionConfig{
			Provider:      viper.GetString("extraction.provider"),
			Model:         viper.GetString("extraction.model"),
			MinConfidence: viper.GetFloat64("extraction.min_confidence"),
			MaxTextChars:  viper.GetInt("extraction.max_text_chars"),
			MaxRetries:    viper.GetInt("extraction.max_retries"),
			Timeout:       viper.GetDuration("extraction.timeout"),
			Ollama: types.OllamaConfig{
				BaseURL:   viper.GetString("extraction.ollama.base_url"),
				OCRModel:  viper.GetString("extraction.ollama.ocr_model"),
				KeepAlive: viper.GetString("extraction.ollama.keep_alive"),
			},
		},
		Batch: types.BatchConfig{
			Concurrency: viper.GetInt("batch.concurrency"),
		},
		History: types.HistoryConfig{
			Enabled: viper.GetBool("history.enabled"),
			Path:    viper.GetString("history.path"),
		},
	}
	return cfg.WithDefaults()
}

// confirm asks the user before a mutating run. A --yes flag bypasses it.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var answer string
	fmt.Scanln(&answer)
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// A low-confidence rejection is a distinguished exit so tooling
		// can tell "not an academic paper" from "something broke".
		var lowConf *types.LowConfidenceError
		if errors.As(err, &lowConf) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
