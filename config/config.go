package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mlfq-simulator/internal/core"
)

type SchedulerConfig struct {
	Port                                       int
	MultilevelFeedbackQueueLevelsTimeQuantum   []int
	MultilevelFeedbackQueuePromotionThresholds []int
	PlaybackTick                               time.Duration
	MaxHorizon                                 int
	LogLevel                                   string
	LogFormat                                  string
	TracingEnabled                             bool
	TracingOutput                              string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 9095)
	v.SetDefault("scheduler.multilevel_feedback_queue.levels_time_quantum", []int{4, 8, 12})
	v.SetDefault("scheduler.multilevel_feedback_queue.promotion_threshold", []int{8, 10})
	v.SetDefault("scheduler.playback.tick", "100ms")
	v.SetDefault("scheduler.max_horizon", 1_000_000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.output", "")
}

// Load reads path, or config.yaml from the working directory when path is
// empty, layering MLFQ_* environment variables and changed flags on top.
// A missing default config file is not an error.
func Load(path string, flags *pflag.FlagSet) (*SchedulerConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("mlfq")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	if flags != nil {
		if flag := flags.Lookup("port"); flag != nil {
			if err := v.BindPFlag("port", flag); err != nil {
				return nil, err
			}
		}
	}

	config := &SchedulerConfig{
		Port:                                       v.GetInt("port"),
		MultilevelFeedbackQueueLevelsTimeQuantum:   v.GetIntSlice("scheduler.multilevel_feedback_queue.levels_time_quantum"),
		MultilevelFeedbackQueuePromotionThresholds: v.GetIntSlice("scheduler.multilevel_feedback_queue.promotion_threshold"),
		PlaybackTick:                               v.GetDuration("scheduler.playback.tick"),
		MaxHorizon:                                 v.GetInt("scheduler.max_horizon"),
		LogLevel:                                   v.GetString("log.level"),
		LogFormat:                                  v.GetString("log.format"),
		TracingEnabled:                             v.GetBool("tracing.enabled"),
		TracingOutput:                              v.GetString("tracing.output"),
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate returns an error describing the first invalid setting.
func (c *SchedulerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	if c.PlaybackTick < 0 {
		return fmt.Errorf("scheduler.playback.tick must not be negative")
	}
	if c.MaxHorizon < 0 {
		return fmt.Errorf("scheduler.max_horizon must not be negative")
	}
	_, err := c.Levels()
	return err
}

// Levels returns the configured queue levels.
func (c *SchedulerConfig) Levels() ([]core.QueueLevel, error) {
	levels, err := core.NewLevels(c.MultilevelFeedbackQueueLevelsTimeQuantum, c.MultilevelFeedbackQueuePromotionThresholds)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler.multilevel_feedback_queue: %w", err)
	}
	return levels, nil
}
