package util

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

func ReadConfig() error {
	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")
	viper.SetEnvPrefix("RWROUTE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

// RouterConfig holds the negotiated congestion parameters of a routing run.
type RouterConfig struct {
	InitialPresentCongestionFactor float32 `mapstructure:"initial_present_congestion_factor" validate:"gt=0"`
	PresentCongestionMultiplier    float32 `mapstructure:"present_congestion_multiplier" validate:"gt=1"`
	MaxPresentCongestionFactor     float32 `mapstructure:"max_present_congestion_factor" validate:"gtefield=InitialPresentCongestionFactor"`
	HistoricalCongestionFactor     float32 `mapstructure:"historical_congestion_factor" validate:"gt=0"`
	NumWorkers                     int     `mapstructure:"num_workers" validate:"gte=1"`
	NumBatches                     int     `mapstructure:"num_batches" validate:"gte=1"`
	LogLevel                       string  `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

func SetRouterConfigDefaults(v *viper.Viper) {
	v.SetDefault("initial_present_congestion_factor", 0.5)
	v.SetDefault("present_congestion_multiplier", 2.0)
	v.SetDefault("max_present_congestion_factor", 1e6)
	v.SetDefault("historical_congestion_factor", 1.0)
	v.SetDefault("num_workers", runtime.GOMAXPROCS(0))
	v.SetDefault("num_batches", 1)
	v.SetDefault("log_level", "info")
}

// LoadRouterConfig decodes and validates the router parameters held by v. pass viper.GetViper() to use the
// global configuration read by ReadConfig.
func LoadRouterConfig(v *viper.Viper) (RouterConfig, error) {
	SetRouterConfigDefaults(v)

	var cfg RouterConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RouterConfig{}, WrapErrorf(err, ErrBadParamInput, "decoding router config: %v", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return RouterConfig{}, WrapErrorf(err, ErrBadParamInput, "invalid router config: %v", err)
	}
	return cfg, nil
}
