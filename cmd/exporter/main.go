// Command exporter 一次性导出 PagerDuty 配置到本地 CSV 目录。
//
// 用法:
//
//	# token 取自 PAGERDUTY_API_TOKEN
//	exporter
//
//	# 指定 token 来源的环境变量并匿名化名称
//	exporter --token-env PD_TOKEN --anonymise
//
//	# 同时写 node_exporter textfile 指标
//	exporter --metrics-file /var/lib/node_exporter/pdexport.prom
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
