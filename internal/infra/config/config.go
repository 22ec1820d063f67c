package config

// Configuration loading for the bot and the analysis engine
// Precedence: defaults, then config.yaml, then .env, then real env, then flags

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Providers ProvidersConfig `mapstructure:"providers"`
	App       AppConfig       `mapstructure:"app"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
}

// ProvidersConfig holds per-provider credentials and usage limits.
// Credentialed providers are skipped entirely when their key is empty.
type ProvidersConfig struct {
	CoingeckoAPIKey  string `mapstructure:"coingecko_api_key"`
	CovalentAPIKey   string `mapstructure:"covalent_api_key"`
	EtherscanAPIKey  string `mapstructure:"etherscan_api_key"`
	BscscanAPIKey    string `mapstructure:"bscscan_api_key"`
	HoldersPerMinute int    `mapstructure:"holders_per_minute"`
	MarketPerMinute  int    `mapstructure:"market_per_minute"`
}

type AppConfig struct {
	DefaultChain   string            `mapstructure:"default_chain"`
	AnalysisBudget int               `mapstructure:"analysis_budget"` // seconds for one full analysis
	TokenCacheTTL  int               `mapstructure:"token_cache_ttl"` // seconds
	MarketCacheTTL int               `mapstructure:"market_cache_ttl"`
	RPCUrls        map[string]string `mapstructure:"rpc_urls"` // chain id -> endpoint override
}

// LoadConfig reads configuration in layered order and validates it.
func LoadConfig() (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.ReadInConfig() // the file is optional

	v.AutomaticEnv()
	setupEnvAliases(v)
	setupFlags(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// RPC overrides can arrive from env as "eth=url,bsc=url"
	if raw := v.GetString("app.rpc_urls_csv"); raw != "" {
		if config.App.RPCUrls == nil {
			config.App.RPCUrls = map[string]string{}
		}
		for _, pair := range strings.Split(raw, ",") {
			parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
			if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
				config.App.RPCUrls[parts[0]] = parts[1]
			}
		}
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.default_chain", "eth")
	v.SetDefault("app.analysis_budget", 45)
	v.SetDefault("app.token_cache_ttl", 300)
	v.SetDefault("app.market_cache_ttl", 60)
	v.SetDefault("providers.holders_per_minute", 30)
	v.SetDefault("providers.market_per_minute", 50)
}

func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("providers.coingecko_api_key", "COINGECKO_API_KEY")
	v.BindEnv("providers.covalent_api_key", "COVALENT_API_KEY")
	v.BindEnv("providers.etherscan_api_key", "ETHERSCAN_API_KEY")
	v.BindEnv("providers.bscscan_api_key", "BSCSCAN_API_KEY")
	v.BindEnv("providers.holders_per_minute", "HOLDERS_PER_MINUTE")
	v.BindEnv("providers.market_per_minute", "MARKET_PER_MINUTE")
	v.BindEnv("app.default_chain", "DEFAULT_CHAIN")
	v.BindEnv("app.analysis_budget", "ANALYSIS_BUDGET")
	v.BindEnv("app.token_cache_ttl", "TOKEN_CACHE_TTL")
	v.BindEnv("app.market_cache_ttl", "MARKET_CACHE_TTL")
	v.BindEnv("app.rpc_urls_csv", "RPC_URLS")
}

func setupFlags(v *viper.Viper) {
	if pflag.Lookup("default-chain") == nil {
		pflag.String("default-chain", "", "default chain id for bare addresses")
		pflag.Int("analysis-budget", 0, "seconds allowed for one full analysis")
	}
	if !pflag.Parsed() {
		pflag.Parse()
	}
	if f := pflag.Lookup("default-chain"); f != nil && f.Changed {
		v.Set("app.default_chain", f.Value.String())
	}
	if f := pflag.Lookup("analysis-budget"); f != nil && f.Changed {
		v.Set("app.analysis_budget", f.Value.String())
	}
}

func validateConfig(config *Config) error {
	if config.App.DefaultChain == "" {
		return fmt.Errorf("default chain must not be empty")
	}
	if config.App.AnalysisBudget <= 0 {
		return fmt.Errorf("analysis budget must be positive, got %d", config.App.AnalysisBudget)
	}
	if config.App.TokenCacheTTL < 0 || config.App.MarketCacheTTL < 0 {
		return fmt.Errorf("cache TTLs must not be negative")
	}
	return nil
}
