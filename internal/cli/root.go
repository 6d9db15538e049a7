// Package cli wires the cobra command tree and builds the tutoring
// engine from configuration.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pathshala/pathshala/internal/appconfig"
	"github.com/pathshala/pathshala/internal/logging"
)

var (
	cfgFile     string
	configStore *appconfig.Store
)

var rootCmd = &cobra.Command{
	Use:   "pathshala",
	Short: "pathshala — offline tutoring assistant over local curriculum content",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config (file or defaults)
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// 2) If the user did NOT set a flag, copy the config value into
		//    the flag so pflags and viper reflect the same final value.
		if !cmd.Flags().Changed("debug") {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(viper.GetBool("debug")))
		}

		// 3) Materialize the merged configuration (flags > config >
		//    defaults) into the store other packages read from.
		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.Normalize()
		configStore = appconfig.NewStore(cfg)

		if err := logging.Init(cfg.Debug, cfg.LogFile); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		if cfg.Debug {
			pp.Println(redactedForDump(cfg))
		}
		return nil
	},
}

// redactedForDump masks credentials before the config is printed.
func redactedForDump(cfg appconfig.Config) appconfig.Config {
	if cfg.Embedding.APIKey != "" {
		cfg.Embedding.APIKey = "[redacted]"
	}
	return cfg
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the current merged configuration snapshot.
func GetConfig() appconfig.Config {
	return configStore.Current()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file and sets safe defaults.
func ensureConfigLoaded() error {
	viper.SetDefault("debug", false)
	viper.SetDefault("runtime.url", "http://localhost:11434")
	viper.SetDefault("embedding.provider", "ollama")
	viper.SetDefault("embedding.url", "http://localhost:11434")
	viper.SetDefault("index.path", "data/index")
	viper.SetDefault("index.collection", "curriculum")
	viper.SetDefault("retrieval.top_k", 5)
	viper.SetDefault("retrieval.deep_top_k", 10)
	viper.SetDefault("retrieval.min_relevance", 0.4)
	viper.SetDefault("generation.max_tokens", 768)
	viper.SetDefault("generation.quiz", true)
	viper.SetDefault("lifecycle.idle_timeout_seconds", 600)
	viper.SetDefault("lifecycle.idle_check_seconds", 30)

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine; defaults and flags cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}
