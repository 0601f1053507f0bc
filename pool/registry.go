package pool

import (
	"reflect"
	"sync"

	"github.com/15mga/hive/singleton"
)

// IPoolable 回收前重置,避免复用时残留旧数据
type IPoolable interface {
	Reset()
}

var _PoolableType = reflect.TypeOf((*IPoolable)(nil)).Elem()

func NewRegistry() *Registry {
	return &Registry{
		pools: make(map[reflect.Type]*Pool[any], 16),
	}
}

// Registry 按运行时类型分池,线程安全
type Registry struct {
	singleton.Singleton
	mtx   sync.Mutex
	pools map[reflect.Type]*Pool[any]
}

func (r *Registry) pool(t reflect.Type) *Pool[any] {
	p, ok := r.pools[t]
	if ok {
		return p
	}
	opts := []PoolOption[any]{
		PoolSpawn(typeSpawn(t)),
	}
	if t.Implements(_PoolableType) {
		opts = append(opts, PoolReset(func(v any) {
			v.(IPoolable).Reset()
		}))
	}
	p = NewPool[any](opts...)
	r.pools[t] = p
	return p
}

// Fetch t为指针类型时不会返回nil
func (r *Registry) Fetch(t reflect.Type) any {
	r.mtx.Lock()
	v := r.pool(t).Fetch()
	r.mtx.Unlock()
	return v
}

// Recycle 池满或v为nil时返回false
func (r *Registry) Recycle(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil() {
		return false
	}
	r.mtx.Lock()
	ok := r.pool(t).Recycle(v)
	r.mtx.Unlock()
	return ok
}

func (r *Registry) Count(t reflect.Type) int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	p, ok := r.pools[t]
	if !ok {
		return 0
	}
	return p.Count()
}

// Counts 各类型当前缓存数
func (r *Registry) Counts() map[string]int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	m := make(map[string]int, len(r.pools))
	for t, p := range r.pools {
		m[t.String()] = p.Count()
	}
	return m
}

func (r *Registry) Dispose() {
	r.mtx.Lock()
	r.pools = make(map[reflect.Type]*Pool[any])
	r.mtx.Unlock()
}

// Fetch 泛型版本
func Fetch[P any](r *Registry) P {
	v, _ := r.Fetch(reflect.TypeOf((*P)(nil)).Elem()).(P)
	return v
}

func typeSpawn(t reflect.Type) func() any {
	if t.Kind() == reflect.Pointer {
		elem := t.Elem()
		return func() any {
			return reflect.New(elem).Interface()
		}
	}
	return func() any {
		return reflect.Zero(t).Interface()
	}
}
