/*
 * @module service/scheduler/scheduler_service
 * @description 定时任务:审计事件与已删除配置的周期清理
 * @architecture 分层架构 - 后台任务层
 * @documentReference docs/housekeeping.md
 * @stateFlow 服务启动 -> 注册cron任务 -> 周期执行 -> 服务停止时取消
 * @rules 清理任务失败只记日志,下个周期重试;保留期通过环境变量配置
 * @dependencies github.com/robfig/cron/v3
 * @refs service/configstore/config_service.go, service/init.go
 */
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"posmdf-service/service/configstore"

	"github.com/robfig/cron/v3"
)

// Options 清理任务配置
type Options struct {
	// CleanupSpec cron表达式(带秒),默认每天凌晨3点
	CleanupSpec string
	// AuditRetention 审计事件保留期
	AuditRetention time.Duration
	// DeletedConfigRetention 软删配置的保留期
	DeletedConfigRetention time.Duration
}

// SchedulerService 定时任务服务
type SchedulerService struct {
	cron    *cron.Cron
	store   *configstore.Service
	options Options
	logger  *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewSchedulerService 创建定时任务服务
func NewSchedulerService(store *configstore.Service, options Options, logger *slog.Logger) *SchedulerService {
	if options.CleanupSpec == "" {
		options.CleanupSpec = "0 0 3 * * *"
	}
	if options.AuditRetention <= 0 {
		options.AuditRetention = 90 * 24 * time.Hour
	}
	if options.DeletedConfigRetention <= 0 {
		options.DeletedConfigRetention = 30 * 24 * time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &SchedulerService{
		cron:    cron.New(cron.WithSeconds()),
		store:   store,
		options: options,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start 注册并启动定时任务
func (s *SchedulerService) Start() error {
	if _, err := s.cron.AddFunc(s.options.CleanupSpec, s.runCleanup); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("定时清理任务已启动", "spec", s.options.CleanupSpec)
	return nil
}

// Stop 停止定时任务,等待在途任务完成
func (s *SchedulerService) Stop() {
	s.cancel()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("定时任务已停止")
}

func (s *SchedulerService) runCleanup() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	purgedEvents, err := s.store.PurgeAuditEvents(ctx, s.options.AuditRetention)
	if err != nil {
		s.logger.Error("清理审计事件失败", "error", err)
	} else if purgedEvents > 0 {
		s.logger.Info("审计事件清理完成", "purged", purgedEvents)
	}

	purgedConfigs, err := s.store.PurgeDeletedConfigurations(ctx, s.options.DeletedConfigRetention)
	if err != nil {
		s.logger.Error("清理已删除配置失败", "error", err)
	} else if purgedConfigs > 0 {
		s.logger.Info("已删除配置清理完成", "purged", purgedConfigs)
	}
}
