package profit

import (
	"github.com/LdDl/tripgraph"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// RankEntry is rank threshold as it is stored in configuration file
type RankEntry struct {
	Rank      string  `mapstructure:"rank" validate:"required,oneof=low medium high"`
	MinProfit float64 `mapstructure:"min_profit"`
}

// Config is fare configuration: fare factors per city and vehicle class plus rank thresholds.
//
// Keys of the fare table are case-insensitive (stored in lower case)
type Config struct {
	Fares        FareTable   `mapstructure:"fares" validate:"required,dive,dive"`
	Ranks        []RankEntry `mapstructure:"ranks" validate:"dive"`
	SearchRadius float64     `mapstructure:"search_radius" validate:"gt=0"`
}

// LoadConfig reads configuration file (YAML, JSON or TOML, detected by extension).
// Scalar settings could be overridden by environment variables with TRIPGRAPH_ prefix, e.g. TRIPGRAPH_SEARCH_RADIUS
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("TRIPGRAPH")
	v.AutomaticEnv()
	v.SetDefault("search_radius", tripgraph.DefaultSearchRadius)

	err := v.ReadInConfig()
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read config '%s'", path)
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, errors.Wrap(err, "Can't unmarshal config")
	}

	err = validator.New().Struct(&cfg)
	if err != nil {
		return nil, errors.Wrap(err, "Invalid config")
	}

	if len(cfg.Ranks) > 0 {
		ranks, err := cfg.RankTable()
		if err != nil {
			return nil, err
		}
		err = ranks.Validate()
		if err != nil {
			return nil, errors.Wrap(err, "Invalid rank table")
		}
	}
	return &cfg, nil
}

// RankTable converts configured ranks. DefaultRankTable is returned when no ranks are configured
func (cfg *Config) RankTable() (RankTable, error) {
	if len(cfg.Ranks) == 0 {
		return DefaultRankTable, nil
	}
	table := make(RankTable, len(cfg.Ranks))
	for i, entry := range cfg.Ranks {
		rank, err := ParseRank(entry.Rank)
		if err != nil {
			return nil, errors.Wrapf(err, "Rank at position %d", i)
		}
		table[i] = RankThreshold{Rank: rank, MinProfit: entry.MinProfit}
	}
	return table, nil
}

// Estimator returns estimator configured by cfg
func (cfg *Config) Estimator(options ...func(*Estimator)) (*Estimator, error) {
	ranks, err := cfg.RankTable()
	if err != nil {
		return nil, err
	}
	options = append([]func(*Estimator){WithSearchRadius(cfg.SearchRadius)}, options...)
	return NewEstimator(cfg.Fares, ranks, options...), nil
}
