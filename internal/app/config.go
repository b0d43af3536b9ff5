package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"pdexport/internal/pagerduty"
)

type PagerDuty struct {
	BaseURL        string `yaml:"base_url"`
	Accept         string `yaml:"accept"`
	Token          string `yaml:"token"`
	TokenEnv       string `yaml:"token_env"`
	PageSize       int    `yaml:"page_size"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Export struct {
	OutputRoot string `yaml:"output_root"`
	DirPrefix  string `yaml:"dir_prefix"`
	Anonymize  bool   `yaml:"anonymize"`
	// RetainRuns 为保留的导出目录数量，0 表示不清理。
	RetainRuns int `yaml:"retain_runs"`
}

type Neo4j struct {
	Enabled              bool   `yaml:"enabled"`
	URI                  string `yaml:"uri"`
	Username             string `yaml:"username"`
	Password             string `yaml:"password"`
	Database             string `yaml:"database"`
	MaxConnectionPool    int    `yaml:"max_connections"`
	ConnectTimeoutSecond int    `yaml:"connect_timeout_second"`
	BatchSize            int    `yaml:"batch_size"`
}

type HTTP struct {
	Listen string `yaml:"listen"`
}

type Job struct {
	// Cron 为定时导出表达式，空串表示不定时导出。
	Cron          string `yaml:"cron"`
	PruneCron     string `yaml:"prune_cron"`
	InitialExport bool   `yaml:"initial_export"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Metrics struct {
	Textfile string `yaml:"textfile"`
}

type Config struct {
	PagerDuty PagerDuty `yaml:"pagerduty"`
	Export    Export    `yaml:"export"`
	Neo4j     Neo4j     `yaml:"neo4j"`
	HTTP      HTTP      `yaml:"http"`
	Job       Job       `yaml:"job"`
	Log       Log       `yaml:"log"`
	Metrics   Metrics   `yaml:"metrics"`
}

// DefaultConfig 返回无配置文件时使用的默认值。
func DefaultConfig() Config {
	return Config{
		PagerDuty: PagerDuty{
			BaseURL:  pagerduty.DefaultBaseURL,
			Accept:   pagerduty.DefaultAccept,
			TokenEnv: pagerduty.DefaultTokenEnv,
			PageSize: pagerduty.DefaultPageSize,
		},
		Export: Export{
			OutputRoot: ".",
			DirPrefix:  "pagerduty_export",
		},
		Neo4j: Neo4j{
			Database:  "neo4j",
			BatchSize: 200,
		},
		HTTP: HTTP{Listen: ":8080"},
		Job: Job{
			Cron:      "0 7 * * *",
			PruneCron: "@hourly",
		},
		Log: Log{Level: "info"},
	}
}

// LoadConfig 从文件加载配置，文件中未出现的字段保留默认值。
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取配置失败: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadConfigIfExists 在文件不存在时返回默认配置。
func LoadConfigIfExists(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// Validate 校验配置。
func (c Config) Validate() error {
	if c.PagerDuty.PageSize <= 0 {
		return fmt.Errorf("pagerduty.page_size 必须大于 0")
	}
	if c.PagerDuty.TimeoutSeconds < 0 {
		return fmt.Errorf("pagerduty.timeout_seconds 不能为负数")
	}
	if strings.TrimSpace(c.Export.DirPrefix) == "" {
		return fmt.Errorf("export.dir_prefix 不能为空")
	}
	if strings.ContainsAny(c.Export.DirPrefix, `/\`) {
		return fmt.Errorf("export.dir_prefix 不能包含路径分隔符")
	}
	if c.Export.RetainRuns < 0 {
		return fmt.Errorf("export.retain_runs 不能为负数")
	}
	if c.Neo4j.Enabled && strings.TrimSpace(c.Neo4j.URI) == "" {
		return fmt.Errorf("neo4j.enabled 时 neo4j.uri 不能为空")
	}
	return nil
}
