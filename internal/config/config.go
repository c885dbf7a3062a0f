package config

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ridgeline-data/rtb-cli/internal/repair"
)

// Config holds the full application configuration.
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Forbes ForbesConfig `yaml:"forbes" mapstructure:"forbes"`
	Repair RepairConfig `yaml:"repair" mapstructure:"repair"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the dataset files and their backups.
type DataConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`
	BackupDir string `yaml:"backup_dir" mapstructure:"backup_dir"`
}

// ForbesConfig configures the real-time billionaires API client.
type ForbesConfig struct {
	URLs        []string `yaml:"urls" mapstructure:"urls"`
	UserAgent   string   `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int      `yaml:"max_retries" mapstructure:"max_retries"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// RepairConfig tunes the repair pipeline.
type RepairConfig struct {
	UnknownPatterns []string `yaml:"unknown_patterns" mapstructure:"unknown_patterns"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// BillionairesPath returns the person-table file path under the data dir.
func (c *Config) BillionairesPath() string {
	return filepath.Join(c.Data.Dir, "billionaires.parquet")
}

// AssetsPath returns the asset-table file path under the data dir.
func (c *Config) AssetsPath() string {
	return filepath.Join(c.Data.Dir, "assets.parquet")
}

// ResolvedBackupDir returns the configured backup dir, defaulting to a
// backups/ directory next to the data files.
func (c *Config) ResolvedBackupDir() string {
	if c.Data.BackupDir != "" {
		return c.Data.BackupDir
	}
	return filepath.Join(c.Data.Dir, "backups")
}

// UnknownPatterns compiles the configured sentinel regexes. An empty
// configuration means the built-in defaults apply.
func (c *Config) UnknownPatterns() ([]*regexp.Regexp, error) {
	if len(c.Repair.UnknownPatterns) == 0 {
		return nil, nil
	}
	return repair.CompilePatterns(c.Repair.UnknownPatterns)
}

// Validate checks invariants that viper cannot express.
func (c *Config) Validate() error {
	var problems []string
	if c.Data.Dir == "" {
		problems = append(problems, "data.dir is required")
	}
	if len(c.Forbes.URLs) == 0 {
		problems = append(problems, "forbes.urls must list at least one endpoint")
	}
	if c.Forbes.TimeoutSecs <= 0 {
		problems = append(problems, "forbes.timeout_secs must be > 0")
	}
	if c.Forbes.MaxRetries < 0 {
		problems = append(problems, "forbes.max_retries must be >= 0")
	}
	if c.Forbes.RateLimit <= 0 {
		problems = append(problems, "forbes.rate_limit must be > 0")
	}
	if _, err := c.UnknownPatterns(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RTB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", "data")
	v.SetDefault("forbes.urls", []string{
		"https://www.forbes.com/forbesapi/person/rtb/0/position/true.json?fields=personName,lastName,birthDate,gender,countryOfCitizenship,city,state,source,industries,finalWorth,estWorthPrev,archivedWorth,privateAssetsWorth,financialAssets",
		"https://www.forbes.com/forbesapi/person/rtb/0/-estWorthPrev/true.json",
		"https://www.forbes.com/forbesapi/person/rtb.json",
	})
	v.SetDefault("forbes.user_agent", "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36")
	v.SetDefault("forbes.timeout_secs", 30)
	v.SetDefault("forbes.max_retries", 2)
	v.SetDefault("forbes.rate_limit", 1.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
