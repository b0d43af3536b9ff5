package ioc

import (
	"os"
	"strings"

	"pdexport/internal/app"
)

const (
	defaultConfigPath = "configs/config.yaml"
	configPathEnv     = "PDEXPORT_CONFIG"
)

// InitConfig 读取应用配置，PDEXPORT_CONFIG 可覆盖默认路径；文件不存在时使用默认配置。
func InitConfig() (app.Config, error) {
	path := strings.TrimSpace(os.Getenv(configPathEnv))
	if path == "" {
		path = defaultConfigPath
	}
	return app.LoadConfigIfExists(path)
}
