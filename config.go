package sched

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config 调度器配置
//
//	timezone: Asia/Shanghai
//	limiter: 8
//	retry:
//	  interval: 5s
//	  max_count: 3
//	jobs:
//	  - name: report
//	    executor: report
//	    every: "15 * * * *"
//	  - name: warmup
//	    executor: warmup
//	    delay: 10s
type Config struct {
	// Timezone 周期边界对齐使用的时区，为空表示本地时区
	Timezone string `yaml:"timezone"`
	// Limiter 并发执行的Job数量
	Limiter int64 `yaml:"limiter"`
	// Retry 一次性Job失败后的重试策略
	Retry *RetryConfig `yaml:"retry"`
	// Jobs 需要调度的Job
	Jobs []JobConfig `yaml:"jobs"`
}

type RetryConfig struct {
	Interval time.Duration `yaml:"interval"`
	MaxCount int           `yaml:"max_count"`
}

type JobConfig struct {
	// Name Job名称
	Name string `yaml:"name"`
	// Executor 已注册的执行函数名称
	Executor string `yaml:"executor"`
	// Every 周期表达式，为空表示一次性Job
	Every string `yaml:"every"`
	// Delay 一次性Job的延迟
	Delay time.Duration `yaml:"delay"`
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Limiter < 0 {
		return errors.Newf("limiter must not be negative: %d", c.Limiter)
	}
	if c.Retry != nil && (c.Retry.Interval <= 0 || c.Retry.MaxCount < 0) {
		return errors.Newf("invalid retry: interval %s, max_count %d", c.Retry.Interval, c.Retry.MaxCount)
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(c.Jobs))
	for i, j := range c.Jobs {
		name := strings.TrimSpace(j.Name)
		if name == "" {
			return errors.Newf("jobs[%d]: name required", i)
		}
		if _, ok := seen[name]; ok {
			return errors.Newf("jobs[%d]: duplicate name %q", i, name)
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(j.Executor) == "" {
			return errors.Newf("job %q: executor required", name)
		}
		if j.Every != "" && j.Delay != 0 {
			return errors.Newf("job %q: every and delay are exclusive", name)
		}
		if j.Delay < 0 {
			return errors.Newf("job %q: negative delay %s", name, j.Delay)
		}
	}
	return nil
}

// Location 解析配置的时区
func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.Wrapf(err, "load timezone %q", tz)
	}
	return loc, nil
}
