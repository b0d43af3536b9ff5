//go:build wireinject

package main

import (
	"context"

	"pdexport/ioc"
	"pdexport/pkg/server"
	"github.com/google/wire"
)

func InitApp(ctx context.Context) (*server.HTTPServer, func(), error) {
	panic(wire.Build(
		ioc.InitConfig,
		ioc.InitLogger,
		ioc.InitMetrics,
		ioc.InitPagerDutyClient,
		ioc.InitGraphLoader,
		ioc.InitAppService,
		ioc.InitExportHandler,
		ioc.InitGinEngine,
		ioc.InitScheduler,
		ioc.InitPruner,
		server.NewHTTPServer,
	))
}
