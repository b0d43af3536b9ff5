package ioc

import (
	"context"

	"pdexport/internal/app"
	"pdexport/internal/loader"
	"go.uber.org/zap"
)

// InitGraphLoader 在 neo4j.enabled 时构建图谱同步器，否则返回 nil。
func InitGraphLoader(ctx context.Context, cfg app.Config, logger *zap.Logger) (app.GraphLoader, func(), error) {
	if !cfg.Neo4j.Enabled {
		return nil, func() {}, nil
	}
	client, err := loader.NewClient(ctx, loader.Config{
		URI:                  cfg.Neo4j.URI,
		Username:             cfg.Neo4j.Username,
		Password:             cfg.Neo4j.Password,
		Database:             cfg.Neo4j.Database,
		MaxConnectionPool:    cfg.Neo4j.MaxConnectionPool,
		ConnectionTimeoutSec: cfg.Neo4j.ConnectTimeoutSecond,
	})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("close neo4j client failed", zap.Error(err))
		}
	}
	return loader.NewGraphSink(client, cfg.Neo4j.BatchSize, logger), cleanup, nil
}
