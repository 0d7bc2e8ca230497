/*
 * @module api/routes
 * @description API路由配置模块,负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范,统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs docs/backend_requirements.md
 */

package api

import (
	"time"

	"posmdf-service/api/controllers"
	apimiddleware "posmdf-service/api/middleware"
	"posmdf-service/logger"
	"posmdf-service/service"
	"posmdf-service/service/rate_limiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link", "X-Export-Warnings"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 限流
	rateLimiter := rate_limiter.NewRedisRateLimiter(service.GlobalRedisConnector, 300, time.Minute, logger.Logger)
	r.Use(rateLimiter.Middleware)

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// SSE事件订阅
	eventController := controllers.NewEventController()
	r.Get("/events/stream", eventController.HandleSSE)

	// 需要API密钥认证的业务接口
	auth := apimiddleware.APIKeyAuth(service.GlobalAccessService)

	// 配置管理
	r.Route("/configurations", func(r chi.Router) {
		r.Use(auth)
		configurationController := controllers.NewConfigurationController()
		migrationController := controllers.NewMigrationController()

		r.Post("/", configurationController.CreateConfiguration)
		r.Get("/", configurationController.ListConfigurations)
		r.Get("/{id}", configurationController.GetConfiguration)
		r.Put("/{id}", configurationController.UpdateConfiguration)
		r.Delete("/{id}", configurationController.DeleteConfiguration)

		// 存储配置的就地迁移
		r.Post("/{id}/migrate", migrationController.MigrateStored)
	})

	// 模式校验
	validationController := controllers.NewValidationController()
	r.With(auth).Post("/validate", validationController.Validate)
	r.Get("/schemas", validationController.ListSchemas)

	// 版本迁移
	r.Route("/migration", func(r chi.Router) {
		r.Use(auth)
		migrationController := controllers.NewMigrationController()
		r.Post("/migrate", migrationController.Migrate)
		r.Get("/available", migrationController.Available)
	})

	// 格式导出
	exportController := controllers.NewExportController()
	r.With(auth).Post("/convert/{format}", exportController.Convert)

	// 审计
	r.Route("/audit", func(r chi.Router) {
		r.Use(auth)
		auditController := controllers.NewAuditController()
		r.Get("/log", auditController.GetAuditLog)
		r.Get("/stats", auditController.GetAuditStats)
	})

	// 接入管理
	r.Route("/access", func(r chi.Router) {
		r.Use(auth)
		accessController := controllers.NewAccessController()
		r.Post("/applications", accessController.CreateApplication)
		r.Get("/applications", accessController.ListApplications)
		r.Post("/keys", accessController.IssueKey)
		r.Delete("/keys/{id}", accessController.RevokeKey)
	})

	// 工具
	utilsController := controllers.NewUtilsController()
	r.Get("/utils/generate", utilsController.GenerateSample)
}
