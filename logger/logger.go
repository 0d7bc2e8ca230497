package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger 全局日志记录器,包加载时即可用
var Logger *slog.Logger

func init() {
	InitLogger()
}

// InitLogger 初始化全局日志记录器
// 创建 JSON 格式的日志处理器,输出到 stdout,级别由 LOG_LEVEL 环境变量控制
func InitLogger() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	})
	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// parseLevel 解析日志级别,未设置时默认 debug
func parseLevel(value string) slog.Level {
	switch strings.ToLower(value) {
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
