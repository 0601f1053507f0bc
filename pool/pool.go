package pool

import (
	"reflect"
)

const (
	// MaxCap 每种类型最多缓存的实例数
	MaxCap = 1000
)

type (
	poolOption[T any] struct {
		minCap int
		maxCap int
		spawn  func() T
		reset  func(T)
	}
	PoolOption[T any] func(o *poolOption[T])
)

func PoolMinCap[T any](c int) PoolOption[T] {
	return func(o *poolOption[T]) {
		o.minCap = c
	}
}

func PoolMaxCap[T any](c int) PoolOption[T] {
	return func(o *poolOption[T]) {
		o.maxCap = c
	}
}

func PoolSpawn[T any](spawn func() T) PoolOption[T] {
	return func(o *poolOption[T]) {
		o.spawn = spawn
	}
}

// PoolReset 回收时调用,清理残留状态
func PoolReset[T any](reset func(T)) PoolOption[T] {
	return func(o *poolOption[T]) {
		o.reset = reset
	}
}

func NewPool[T any](opts ...PoolOption[T]) *Pool[T] {
	opt := &poolOption[T]{
		minCap: 16,
		maxCap: MaxCap,
	}
	for _, o := range opts {
		o(opt)
	}
	if opt.maxCap < 1 {
		opt.maxCap = 1
	}
	if opt.minCap < 1 {
		opt.minCap = 1
	}
	if opt.minCap > opt.maxCap {
		opt.minCap = opt.maxCap
	}
	if opt.spawn == nil {
		opt.spawn = spawnOf[T]()
	}
	if opt.reset == nil {
		opt.reset = resetOf[T]()
	}
	return &Pool[T]{
		opt:    opt,
		values: make([]T, opt.minCap),
	}
}

// Pool 非线程安全,后进先出
type Pool[T any] struct {
	opt    *poolOption[T]
	values []T
	idx    int
}

// Fetch 优先取回收的实例,否则新建
func (p *Pool[T]) Fetch() T {
	if p.idx == 0 {
		return p.opt.spawn()
	}
	p.idx--
	v := p.values[p.idx]
	var zero T
	p.values[p.idx] = zero
	return v
}

// Recycle 池满时丢弃v并返回false,丢弃的实例由调用方负责
func (p *Pool[T]) Recycle(v T) bool {
	if p.idx == len(p.values) {
		if len(p.values) == p.opt.maxCap {
			return false
		}
		p.grow()
	}
	if p.opt.reset != nil {
		p.opt.reset(v)
	}
	p.values[p.idx] = v
	p.idx++
	return true
}

func (p *Pool[T]) Count() int {
	return p.idx
}

func (p *Pool[T]) MaxCap() int {
	return p.opt.maxCap
}

func (p *Pool[T]) grow() {
	c := len(p.values) << 1
	if c > p.opt.maxCap {
		c = p.opt.maxCap
	}
	values := make([]T, c)
	copy(values, p.values[:p.idx])
	p.values = values
}

// spawnOf 指针类型新建元素,其余类型返回零值
func spawnOf[T any]() func() T {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Pointer {
		return func() (v T) {
			return
		}
	}
	elem := t.Elem()
	return func() T {
		return reflect.New(elem).Interface().(T)
	}
}

func resetOf[T any]() func(T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if !t.Implements(_PoolableType) {
		return nil
	}
	return func(v T) {
		any(v).(IPoolable).Reset()
	}
}
