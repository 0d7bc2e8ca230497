/*
 * @module service/init
 * @description 服务初始化模块,负责数据库连接、连接器、迁移注册表等初始化工作
 * @architecture 分层架构 - 服务层
 * @documentReference docs/backend_requirements.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules 数据库是硬依赖,连接失败直接退出;
 *        Redis/MQTT/Kafka是可选出口,连接失败降级运行并记日志
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs service/configstore, service/event, service/migration
 */

package service

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"posmdf-service/client/connectors"
	"posmdf-service/logger"
	"posmdf-service/service/access"
	"posmdf-service/service/configstore"
	"posmdf-service/service/database"
	"posmdf-service/service/event"
	"posmdf-service/service/migration"
	"posmdf-service/service/scheduler"
	"posmdf-service/service/validation"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB                     *gorm.DB
	GlobalValidator        *validation.Validator
	GlobalRegistry         *migration.Registry
	GlobalConfigService    *configstore.Service
	GlobalAccessService    *access.Service
	GlobalEventService     *event.EventService
	GlobalSchedulerService *scheduler.SchedulerService
	GlobalRedisConnector   *connectors.RedisConnector
	GlobalMQTTConnector    *connectors.MQTTConnector
	GlobalKafkaConnector   *connectors.KafkaConnector
)

func init() {
	initDatabase()
	runMigrations()
	initConnectors()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "postgres")
		dbname := getEnvWithDefault("DB_NAME", "posmdf")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=UTC",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// getEnvWithDefault 获取环境变量,如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 运行数据库迁移
func runMigrations() {
	if err := database.AutoMigrate(DB); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
	if err := database.InitializeData(DB, logger.Logger); err != nil {
		log.Fatalf("基础数据初始化失败: %v", err)
	}
	log.Println("数据库迁移任务完成")
}

// initConnectors 初始化可选的外部连接器,失败降级运行
func initConnectors() {
	GlobalRedisConnector = connectors.NewRedisConnector(&connectors.RedisConfig{
		Address:      getEnvWithDefault("REDIS_HOST", "localhost") + ":" + getEnvWithDefault("REDIS_PORT", "6379"),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DefaultTTL:   time.Hour,
	}, logger.Logger)
	if err := GlobalRedisConnector.Connect(); err != nil {
		log.Printf("Redis连接失败,缓存降级: %v", err)
	}

	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		GlobalMQTTConnector = connectors.NewMQTTConnector(&connectors.MQTTConfig{
			Broker:       broker,
			ClientID:     getEnvWithDefault("MQTT_CLIENT_ID", "posmdf-service"),
			Username:     os.Getenv("MQTT_USERNAME"),
			Password:     os.Getenv("MQTT_PASSWORD"),
			CleanSession: true,
			KeepAlive:    30 * time.Second,
		}, logger.Logger)
		if err := GlobalMQTTConnector.Connect(); err != nil {
			log.Printf("MQTT连接失败,设备通知降级: %v", err)
		}
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		GlobalKafkaConnector = connectors.NewKafkaConnector(&connectors.KafkaConfig{
			Brokers:      strings.Split(brokers, ","),
			AuditTopic:   getEnvWithDefault("KAFKA_AUDIT_TOPIC", "posmdf.audit"),
			WriteTimeout: 10 * time.Second,
		}, logger.Logger)
		if err := GlobalKafkaConnector.Connect(); err != nil {
			log.Printf("Kafka连接失败,审计流降级: %v", err)
		}
	}
}

// initServices 初始化服务
func initServices() {
	GlobalValidator = validation.NewValidator()

	engine, err := migration.NewV1ToV2Engine(migration.Options{
		DefaultLanguage:    getEnvWithDefault("DEFAULT_LANGUAGE", "de"),
		SupportedLanguages: strings.Split(getEnvWithDefault("SUPPORTED_LANGUAGES", "de,en"), ","),
		MigrationUser:      getEnvWithDefault("MIGRATION_USER", "migration@eckasse.com"),
	})
	if err != nil {
		log.Fatalf("创建迁移引擎失败: %v", err)
	}
	GlobalRegistry = migration.NewRegistry()
	GlobalRegistry.Register(engine.SourceVersion(), engine.TargetVersion(), engine)

	GlobalConfigService = configstore.NewService(DB, GlobalRedisConnector, os.Getenv("CONFIG_ENCRYPTION_KEY"), logger.Logger)
	GlobalAccessService = access.NewService(DB, logger.Logger)
	GlobalEventService = event.NewEventService(GlobalMQTTConnector, GlobalKafkaConnector, logger.Logger)
	GlobalConfigService.SetNotifier(GlobalEventService)

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		if err := GlobalEventService.StartPostgresListener(dsn); err != nil {
			log.Printf("启动数据库通知监听失败: %v", err)
		}
	}

	GlobalSchedulerService = scheduler.NewSchedulerService(GlobalConfigService, scheduler.Options{
		CleanupSpec: getEnvWithDefault("CLEANUP_CRON", "0 0 3 * * *"),
	}, logger.Logger)
	if err := GlobalSchedulerService.Start(); err != nil {
		log.Printf("启动定时任务失败: %v", err)
	}

	log.Println("服务初始化完成")
}
