package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	DefaultModel            = "anthropic/claude-sonnet-4"
	DefaultMaxSteps         = 20
	DefaultToolTimeout      = 30 * time.Second
	DefaultBaseURL          = "https://openrouter.ai/api/v1"
	DefaultContextBytes     = 80 * 1024
	DefaultReadBytes        = 50 * 1024
	DefaultReadLines        = 1000
	DefaultShellBytes       = 50 * 1024
	DefaultShellLines       = 1000
	DefaultSearchBytes      = 50 * 1024
	DefaultSearchLines      = 1000
	DefaultSearchMaxResults = 100
)

// ToolLimits controls max output sizes for tools and context.
type ToolLimits struct {
	ReadMaxBytes     int `mapstructure:"read_max_bytes"`
	ReadMaxLines     int `mapstructure:"read_max_lines"`
	ShellMaxBytes    int `mapstructure:"shell_max_bytes"`
	ShellMaxLines    int `mapstructure:"shell_max_lines"`
	SearchMaxBytes   int `mapstructure:"search_max_bytes"`
	SearchMaxLines   int `mapstructure:"search_max_lines"`
	SearchMaxResults int `mapstructure:"search_max_results"`
	ContextMaxBytes  int `mapstructure:"context_max_bytes"`
}

// Config holds runtime configuration values.
type Config struct {
	Model             string
	MaxSteps          int
	Dir               string
	ToolTimeout       time.Duration
	Quiet             bool
	JSON              bool
	Verbose           bool
	LogFile           string
	PersistRuns       bool
	OpenRouterBaseURL string
	HTTPReferer       string
	Title             string
	ToolLimits        ToolLimits
}

type rawConfig struct {
	Model             string     `mapstructure:"model"`
	MaxSteps          int        `mapstructure:"max_steps"`
	Dir               string     `mapstructure:"dir"`
	ToolTimeout       string     `mapstructure:"tool_timeout"`
	Quiet             bool       `mapstructure:"quiet"`
	JSON              bool       `mapstructure:"json"`
	Verbose           bool       `mapstructure:"verbose"`
	LogFile           string     `mapstructure:"log_file"`
	PersistRuns       bool       `mapstructure:"persist_runs"`
	OpenRouterBaseURL string     `mapstructure:"openrouter_base_url"`
	HTTPReferer       string     `mapstructure:"http_referer"`
	Title             string     `mapstructure:"title"`
	ToolLimits        ToolLimits `mapstructure:"tool_limits"`
}

// Load resolves configuration from defaults, config files, env, and flags.
func Load(cmd *cobra.Command) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("model", DefaultModel)
	v.SetDefault("max_steps", DefaultMaxSteps)
	v.SetDefault("tool_timeout", DefaultToolTimeout.String())
	v.SetDefault("dir", ".")
	v.SetDefault("quiet", false)
	v.SetDefault("json", false)
	v.SetDefault("verbose", false)
	v.SetDefault("log_file", "")
	v.SetDefault("persist_runs", false)
	v.SetDefault("openrouter_base_url", DefaultBaseURL)
	v.SetDefault("tool_limits.read_max_bytes", DefaultReadBytes)
	v.SetDefault("tool_limits.read_max_lines", DefaultReadLines)
	v.SetDefault("tool_limits.shell_max_bytes", DefaultShellBytes)
	v.SetDefault("tool_limits.shell_max_lines", DefaultShellLines)
	v.SetDefault("tool_limits.search_max_bytes", DefaultSearchBytes)
	v.SetDefault("tool_limits.search_max_lines", DefaultSearchLines)
	v.SetDefault("tool_limits.search_max_results", DefaultSearchMaxResults)
	v.SetDefault("tool_limits.context_max_bytes", DefaultContextBytes)

	if cmd != nil {
		_ = v.BindPFlag("model", cmd.Flags().Lookup("model"))
		_ = v.BindPFlag("max_steps", cmd.Flags().Lookup("max-steps"))
		_ = v.BindPFlag("dir", cmd.Flags().Lookup("dir"))
		_ = v.BindPFlag("tool_timeout", cmd.Flags().Lookup("tool-timeout"))
		_ = v.BindPFlag("quiet", cmd.Flags().Lookup("quiet"))
		_ = v.BindPFlag("json", cmd.Flags().Lookup("json"))
		_ = v.BindPFlag("verbose", cmd.Flags().Lookup("verbose"))
		_ = v.BindPFlag("log_file", cmd.Flags().Lookup("log-file"))
		_ = v.BindPFlag("persist_runs", cmd.Flags().Lookup("persist-runs"))
	}

	if seconds := os.Getenv("SCOUT_TIMEOUT_SECONDS"); seconds != "" {
		v.Set("tool_timeout", seconds+"s")
	}
	if model := os.Getenv("SCOUT_MODEL"); model != "" {
		v.Set("model", model)
	}
	if baseURL := os.Getenv("SCOUT_BASE_URL"); baseURL != "" {
		v.Set("openrouter_base_url", baseURL)
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" && os.Getenv("SCOUT_BASE_URL") == "" {
		v.Set("openrouter_base_url", baseURL)
	}

	if err := loadConfigFile(v); err != nil {
		return Config{}, err
	}

	var raw rawConfig
	decoder, _ := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: &raw})
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return Config{}, err
	}

	timeout := DefaultToolTimeout
	if raw.ToolTimeout != "" {
		parsed, err := time.ParseDuration(raw.ToolTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid tool_timeout duration: %w", err)
		}
		timeout = parsed
	}

	cfg := Config{
		Model:             raw.Model,
		MaxSteps:          raw.MaxSteps,
		Dir:               raw.Dir,
		ToolTimeout:       timeout,
		Quiet:             raw.Quiet,
		JSON:              raw.JSON,
		Verbose:           raw.Verbose,
		LogFile:           raw.LogFile,
		PersistRuns:       raw.PersistRuns,
		OpenRouterBaseURL: raw.OpenRouterBaseURL,
		HTTPReferer:       raw.HTTPReferer,
		Title:             raw.Title,
		ToolLimits:        raw.ToolLimits,
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = DefaultToolTimeout
	}
	if cfg.OpenRouterBaseURL == "" {
		cfg.OpenRouterBaseURL = DefaultBaseURL
	}

	if cfg.ToolLimits.ReadMaxBytes <= 0 {
		cfg.ToolLimits.ReadMaxBytes = DefaultReadBytes
	}
	if cfg.ToolLimits.ReadMaxLines <= 0 {
		cfg.ToolLimits.ReadMaxLines = DefaultReadLines
	}
	if cfg.ToolLimits.ShellMaxBytes <= 0 {
		cfg.ToolLimits.ShellMaxBytes = DefaultShellBytes
	}
	if cfg.ToolLimits.ShellMaxLines <= 0 {
		cfg.ToolLimits.ShellMaxLines = DefaultShellLines
	}
	if cfg.ToolLimits.SearchMaxBytes <= 0 {
		cfg.ToolLimits.SearchMaxBytes = DefaultSearchBytes
	}
	if cfg.ToolLimits.SearchMaxLines <= 0 {
		cfg.ToolLimits.SearchMaxLines = DefaultSearchLines
	}
	if cfg.ToolLimits.SearchMaxResults <= 0 {
		cfg.ToolLimits.SearchMaxResults = DefaultSearchMaxResults
	}
	if cfg.ToolLimits.ContextMaxBytes <= 0 {
		cfg.ToolLimits.ContextMaxBytes = DefaultContextBytes
	}

	return cfg, nil
}

func loadConfigFile(v *viper.Viper) error {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	base := filepath.Join(configDir, "scout-cli")
	candidates := []string{
		filepath.Join(base, "config.yaml"),
		filepath.Join(base, "config.yml"),
		filepath.Join(base, "config.json"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return err
			}
			return nil
		}
	}
	return nil
}
