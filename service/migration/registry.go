/*
 * @module service/migration/registry
 * @description 迁移注册表,(源版本, 目标版本) 到引擎的精确映射
 * @architecture 分层架构 - 领域服务层
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow 启动时注册 -> 请求时查找 -> 执行迁移
 * @rules 只支持单跳精确查找,不做多跳组合(各步默认值会不可预测地叠加);
 *        版本键区分大小写、精确匹配
 * @dependencies sync
 * @refs service/migration/v1_to_v2.go, api/controllers/migration_controller.go
 */

package migration

import (
	"fmt"
	"sync"
)

// ErrMigrationNotFound 查找不到已注册的迁移
type ErrMigrationNotFound struct {
	From string
	To   string
}

func (e *ErrMigrationNotFound) Error() string {
	return fmt.Sprintf("no migration available from %s to %s", e.From, e.To)
}

// MigrationPath 一条已注册的迁移路径
type MigrationPath struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type versionPair struct {
	from string
	to   string
}

// Registry 迁移注册表
type Registry struct {
	mu      sync.RWMutex
	engines map[versionPair]Engine
	order   []versionPair
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[versionPair]Engine),
	}
}

// Register 注册一个单步迁移,同一版本对重复注册时后者覆盖前者
func (r *Registry) Register(from, to string, engine Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := versionPair{from: from, to: to}
	if _, exists := r.engines[key]; !exists {
		r.order = append(r.order, key)
	}
	r.engines[key] = engine
}

// Lookup 精确查找单步迁移,未注册的版本对返回 ErrMigrationNotFound
func (r *Registry) Lookup(from, to string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, ok := r.engines[versionPair{from: from, to: to}]
	if !ok {
		return nil, &ErrMigrationNotFound{From: from, To: to}
	}
	return engine, nil
}

// Available 按注册顺序列出所有迁移路径
func (r *Registry) Available() []MigrationPath {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]MigrationPath, 0, len(r.order))
	for _, key := range r.order {
		paths = append(paths, MigrationPath{From: key.from, To: key.to})
	}
	return paths
}
