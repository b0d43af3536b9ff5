package main

import (
	"os"
	"strings"
	"time"

	"pdexport/internal/app"
	"pdexport/internal/loader"
	"pdexport/internal/metrics"
	"pdexport/internal/pagerduty"
	"pdexport/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// registry 只收集导出指标，textfile 中不混入 go runtime 指标。
var registry = prometheus.NewRegistry()

type exportFlags struct {
	config      string
	token       string
	tokenEnv    string
	anonymise   bool
	outputRoot  string
	metricsFile string
	logLevel    string
	graph       bool
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithEnv(os.LookupEnv)
}

func newRootCmdWithEnv(lookup pagerduty.LookupFunc) *cobra.Command {
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "exporter",
		Short: "Export PagerDuty on-call configuration to CSV",
		Long: `Export teams, users, schedules, escalation policies, services and
integrations from the PagerDuty REST API into a timestamped directory of CSV
files. User names and emails are always redacted; --anonymise also replaces
team, schedule, policy and service names with stable pseudonyms.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolveConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return runExport(cmd, cfg, lookup)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.config, "config", "", "config file path (defaults apply when empty)")
	f.StringVar(&flags.token, "token", "", "PagerDuty API token")
	f.StringVar(&flags.tokenEnv, "token-env", pagerduty.DefaultTokenEnv, "environment variable holding the API token")
	f.BoolVar(&flags.anonymise, "anonymise", false, "replace team, schedule, policy and service names with pseudonyms")
	f.StringVar(&flags.outputRoot, "output-root", "", "directory under which the export directory is created")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "write export metrics in Prometheus text format to this file")
	f.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.BoolVar(&flags.graph, "graph", false, "also mirror the export into Neo4j (uses the neo4j config section)")
	cmd.MarkFlagsMutuallyExclusive("token", "token-env")
	f.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "anonymize" {
			name = "anonymise"
		}
		return pflag.NormalizedName(name)
	})
	return cmd
}

// resolveConfig 加载配置文件，再用显式给出的命令行参数覆盖。
func (f *exportFlags) resolveConfig(fs *pflag.FlagSet) (app.Config, error) {
	cfg := app.DefaultConfig()
	if strings.TrimSpace(f.config) != "" {
		loaded, err := app.LoadConfig(f.config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if fs.Changed("token") {
		cfg.PagerDuty.Token = f.token
	}
	if fs.Changed("token-env") {
		cfg.PagerDuty.Token = ""
		cfg.PagerDuty.TokenEnv = f.tokenEnv
	}
	if fs.Changed("anonymise") {
		cfg.Export.Anonymize = f.anonymise
	}
	if fs.Changed("output-root") {
		cfg.Export.OutputRoot = f.outputRoot
	}
	if fs.Changed("metrics-file") {
		cfg.Metrics.Textfile = f.metricsFile
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fs.Changed("graph") {
		cfg.Neo4j.Enabled = f.graph
	}
	return cfg, cfg.Validate()
}

func runExport(cmd *cobra.Command, cfg app.Config, lookup pagerduty.LookupFunc) error {
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	metrics.MustRegister(registry)

	token, err := pagerduty.ResolveToken(cfg.PagerDuty.Token, cfg.PagerDuty.TokenEnv, lookup)
	if err != nil {
		return err
	}
	client, err := pagerduty.NewHTTPClient(pagerduty.HTTPConfig{
		BaseURL:     cfg.PagerDuty.BaseURL,
		TokenSource: &pagerduty.StaticTokenSource{Value: token},
		Accept:      cfg.PagerDuty.Accept,
		PageSize:    cfg.PagerDuty.PageSize,
		Timeout:     time.Duration(cfg.PagerDuty.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var graph app.GraphLoader
	if cfg.Neo4j.Enabled {
		neo, err := loader.NewClient(ctx, loader.Config{
			URI:                  cfg.Neo4j.URI,
			Username:             cfg.Neo4j.Username,
			Password:             cfg.Neo4j.Password,
			Database:             cfg.Neo4j.Database,
			MaxConnectionPool:    cfg.Neo4j.MaxConnectionPool,
			ConnectionTimeoutSec: cfg.Neo4j.ConnectTimeoutSecond,
		})
		if err != nil {
			return err
		}
		defer func() { _ = neo.Close(ctx) }()
		graph = loader.NewGraphSink(neo, cfg.Neo4j.BatchSize, logger)
	}

	svc, err := app.NewService(cfg, client, graph, logger)
	if err != nil {
		return err
	}
	svc.SetProgress(cmd.OutOrStdout())
	result, exportErr := svc.Export(ctx, app.ExportOptions{})
	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, registry); err != nil {
			logger.Warn("write metrics textfile failed", zap.String("path", cfg.Metrics.Textfile), zap.Error(err))
		}
	}
	if exportErr != nil {
		return exportErr
	}
	logger.Debug("export summary", zap.String("dir", result.Dir), zap.Any("counts", result.Counts))
	return nil
}
