/*
 * @module service/metrics/metrics
 * @description Prometheus指标定义:迁移、校验、导出与缓存计数
 * @architecture 分层架构 - 可观测层
 * @documentReference docs/observability.md
 * @stateFlow 进程启动时注册 -> 各服务打点 -> /metrics 暴露
 * @rules 指标一次性注册,标签基数受控(版本号、格式名、结果枚举)
 * @dependencies github.com/prometheus/client_golang
 * @refs main.go, service/migration, service/validation, service/export
 */
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MigrationsTotal 迁移次数,按版本对与结果统计
	MigrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posmdf_migrations_total",
		Help: "Number of configuration migrations by version pair and result.",
	}, []string{"from_version", "to_version", "result"})

	// MigrationDuration 迁移耗时
	MigrationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "posmdf_migration_duration_seconds",
		Help:    "Duration of configuration migrations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"from_version", "to_version"})

	// ValidationsTotal 校验次数,按版本与结果统计
	ValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posmdf_validations_total",
		Help: "Number of schema validations by version and result.",
	}, []string{"version", "result"})

	// ExportsTotal 导出次数,按格式统计
	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posmdf_exports_total",
		Help: "Number of configuration exports by format.",
	}, []string{"format"})

	// CacheHitsTotal 配置缓存命中/未命中
	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posmdf_config_cache_requests_total",
		Help: "Configuration cache lookups by outcome.",
	}, []string{"outcome"})
)

// ResultLabel 把成功标志转成结果标签
func ResultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
