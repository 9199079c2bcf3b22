// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the devscholar CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/devscholar/internal/secrets"
	"github.com/pdiddy/devscholar/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the devscholar CLI.
var rootCmd = &cobra.Command{
	Use:   "devscholar",
	Short: "Find and resolve paper references in source code",
	Long: `devscholar scans source-code comments for academic paper references
(arXiv IDs, DOIs, Semantic Scholar, OpenAlex, PubMed, IEEE) and resolves
them to full bibliographic metadata through public APIs.

Resolved metadata is cached on disk and can be exported or indexed into
a local SQLite database for full-text search.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./devscholar.yaml or ~/.config/devscholar/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("devscholar")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "devscholar"))
		}
	}

	viper.SetEnvPrefix("DEVSCHOLAR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the engine configuration from config file,
// environment, and loaded secrets.
func engineConfig() types.EngineConfig {
	ua := viper.GetString("http.user_agent")
	if ua == "" {
		ua = "devscholar/0.1"
	}
	cachePath := viper.GetString("cache.path")
	if cachePath == "" {
		cachePath = filepath.Join(".devscholar", "cache.json")
	}
	indexPath := viper.GetString("index.path")
	if indexPath == "" {
		indexPath = filepath.Join(".devscholar", "index.db")
	}

	return types.EngineConfig{
		Resolver: types.ResolverConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    viper.GetDuration("http.timeout"),
				UserAgent:  ua,
				MaxRetries: viper.GetInt("http.max_retries"),
			},
			SemanticScholarAPIKey:   secretDefault("semantic-scholar-api-key", viper.GetString("resolver.semantic_scholar_api_key")),
			OpenAlexEmail:           secretDefault("openalex-email", viper.GetString("resolver.openalex_email")),
			CrossRefMailto:          secretDefault("crossref-mailto", viper.GetString("resolver.crossref_mailto")),
			ArxivInterval:           viper.GetDuration("resolver.arxiv_interval"),
			CrossRefInterval:        viper.GetDuration("resolver.crossref_interval"),
			SemanticScholarInterval: viper.GetDuration("resolver.semantic_scholar_interval"),
			OpenAlexInterval:        viper.GetDuration("resolver.openalex_interval"),
		},
		Cache: types.CacheConfig{
			Path:       cachePath,
			MaxAgeDays: viper.GetInt("cache.max_age_days"),
		},
		Index: types.IndexConfig{
			Path:       indexPath,
			MaxResults: viper.GetInt("index.max_results"),
		},
	}
}

// resolveTimeout bounds a whole resolve batch, not a single request.
func resolveTimeout() time.Duration {
	if d := viper.GetDuration("resolve_timeout"); d > 0 {
		return d
	}
	return 2 * time.Minute
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
