// internal/climate/registry.go

package climate

import (
	"fmt"
	"sync"
)

// Registry 按 VIN 管理空调实体
type Registry struct {
	mu       sync.RWMutex
	entities map[string]*Entity
}

func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]*Entity),
	}
}

// Add 注册实体，VIN 重复时报错
func (r *Registry) Add(entity *Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[entity.VIN()]; exists {
		return fmt.Errorf("车辆 %s 已注册", entity.VIN())
	}
	r.entities[entity.VIN()] = entity
	return nil
}

// Get 按 VIN 查找实体
func (r *Registry) Get(vin string) (*Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entity, ok := r.entities[vin]
	return entity, ok
}

// All 返回所有已注册实体
func (r *Registry) All() []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entities := make([]*Entity, 0, len(r.entities))
	for _, entity := range r.entities {
		entities = append(entities, entity)
	}
	return entities
}

// Remove 注销实体并清理其挂起的下发
func (r *Registry) Remove(vin string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entity, exists := r.entities[vin]; exists {
		entity.Close()
		delete(r.entities, vin)
	}
}

// CloseAll 注销全部实体
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for vin, entity := range r.entities {
		entity.Close()
		delete(r.entities, vin)
	}
}
