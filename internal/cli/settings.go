package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/isnad/internal/llm"
	"github.com/ppiankov/isnad/internal/model"
)

// loadConfig builds the configuration: defaults < config file < env < flags.
// Flags are applied by each command through applyLLMFlags.
func loadConfig() (*model.Config, error) {
	return configFrom(viper.GetViper())
}

func configFrom(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()

	if path := v.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	applyOverrides(v, cfg)
	llm.ResolveCredential(&cfg.LLM)

	return cfg, nil
}

// applyOverrides copies keys set through ISNAD_* variables (or the config
// file, which agrees with the yaml pass above) onto cfg
func applyOverrides(v *viper.Viper, cfg *model.Config) {
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	flt := func(key string, dst *float64) {
		if v.IsSet(key) {
			*dst = v.GetFloat64(key)
		}
	}
	flag := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v.IsSet(key) {
			*dst = v.GetDuration(key)
		}
	}

	str("llm.provider", &cfg.LLM.Provider)
	str("llm.model", &cfg.LLM.Model)
	str("llm.api_key", &cfg.LLM.APIKey)
	str("llm.base_url", &cfg.LLM.BaseURL)
	num("llm.timeout", &cfg.LLM.Timeout)
	flt("llm.temperature", &cfg.LLM.Temperature)
	num("llm.max_tokens", &cfg.LLM.MaxTokens)

	str("http.http_proxy", &cfg.HTTP.HTTPProxy)
	str("http.https_proxy", &cfg.HTTP.HTTPSProxy)
	str("http.no_proxy", &cfg.HTTP.NoProxy)

	flag("cache.enabled", &cfg.Cache.Enabled)
	str("cache.dir", &cfg.Cache.Dir)
	dur("cache.memory_ttl", &cfg.Cache.MemoryTTL)
	dur("cache.disk_ttl", &cfg.Cache.DiskTTL)

	num("concurrency.workers", &cfg.Concurrency.Workers)
	flt("rate_limiting.requests_per_second", &cfg.RateLimiting.RequestsPerSecond)
	num("rate_limiting.burst_size", &cfg.RateLimiting.BurstSize)

	flag("output.verbose", &cfg.Output.Verbose)
	flag("output.color", &cfg.Output.Color)
	str("output.format", &cfg.Output.Format)
	flag("output.include_footer", &cfg.Output.IncludeFooter)

	str("server.addr", &cfg.Server.Addr)
	dur("server.read_timeout", &cfg.Server.ReadTimeout)
	dur("server.write_timeout", &cfg.Server.WriteTimeout)
	num("server.max_in_flight", &cfg.Server.MaxInFlight)
	if v.IsSet("server.max_body_bytes") {
		cfg.Server.MaxBodyBytes = v.GetInt64("server.max_body_bytes")
	}
}

// llmFlags are shared by every command that talks to a provider
type llmFlags struct {
	provider    string
	model       string
	baseURL     string
	temperature float64
	timeout     int
	noStore     bool
}

func (f *llmFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "provider", "", "LLM provider (gemini, openai, anthropic, ollama)")
	cmd.Flags().StringVar(&f.model, "model", "", "model name (provider default when empty)")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "override the provider API base URL")
	cmd.Flags().Float64Var(&f.temperature, "temperature", 0.1, "sampling temperature")
	cmd.Flags().IntVar(&f.timeout, "llm-timeout", 0, "provider request timeout in seconds")
	cmd.Flags().BoolVar(&f.noStore, "no-store", false, "do not keep this result as the latest report")
}

// apply copies explicitly set flags onto cfg
func (f *llmFlags) apply(cmd *cobra.Command, cfg *model.Config) {
	changed := cmd.Flags().Changed

	if changed("provider") && f.provider != cfg.LLM.Provider {
		cfg.LLM.Provider = f.provider
		// the configured model and key belong to the previous provider
		cfg.LLM.Model = ""
		cfg.LLM.APIKey = ""
		cfg.LLM.BaseURL = ""
		llm.ResolveCredential(&cfg.LLM)
	}
	if changed("model") {
		cfg.LLM.Model = f.model
	}
	if changed("base-url") {
		cfg.LLM.BaseURL = f.baseURL
	}
	if changed("temperature") {
		cfg.LLM.Temperature = f.temperature
	}
	if changed("llm-timeout") {
		cfg.LLM.Timeout = f.timeout
	}
	if f.noStore {
		cfg.Cache.Enabled = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}
}
