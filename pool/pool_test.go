package pool

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	id    int
	dirty bool
}

func (i *item) Reset() {
	i.dirty = false
}

type plain struct {
	n int
}

func TestPoolBounded(t *testing.T) {
	p := NewPool[*item]()
	items := make(map[*item]struct{}, MaxCap+1)
	recycled := 0
	for i := 0; i < MaxCap+1; i++ {
		it := &item{id: i}
		items[it] = struct{}{}
		if p.Recycle(it) {
			recycled++
		}
	}
	assert.Equal(t, MaxCap, recycled)
	assert.Equal(t, MaxCap, p.Count())

	reused := 0
	for i := 0; i < MaxCap+1; i++ {
		it := p.Fetch()
		assert.NotNil(t, it)
		if _, ok := items[it]; ok {
			reused++
		}
	}
	assert.Equal(t, MaxCap, reused)
	assert.Equal(t, 0, p.Count())
}

func TestPoolReset(t *testing.T) {
	p := NewPool[*item](PoolMinCap[*item](1), PoolMaxCap[*item](2))
	it := p.Fetch()
	it.dirty = true
	assert.True(t, p.Recycle(it))
	assert.False(t, p.Fetch().dirty)

	assert.True(t, p.Recycle(&item{}))
	assert.True(t, p.Recycle(&item{}))
	assert.False(t, p.Recycle(&item{}))
	assert.Equal(t, 2, p.MaxCap())
}

func TestPoolSpawn(t *testing.T) {
	n := 0
	p := NewPool[int](PoolSpawn(func() int {
		n++
		return n
	}))
	assert.Equal(t, 1, p.Fetch())
	assert.Equal(t, 2, p.Fetch())
	p.Recycle(10)
	assert.Equal(t, 10, p.Fetch())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	it := Fetch[*item](r)
	assert.NotNil(t, it)
	it.dirty = true
	assert.True(t, r.Recycle(it))
	assert.Equal(t, 1, r.Count(reflect.TypeOf(it)))

	got := r.Fetch(reflect.TypeOf(it)).(*item)
	assert.Same(t, it, got)
	assert.False(t, got.dirty)

	pl := Fetch[*plain](r)
	pl.n = 3
	r.Recycle(pl)
	assert.Equal(t, 3, Fetch[*plain](r).n)

	var nilItem *item
	assert.False(t, r.Recycle(nilItem))
	assert.False(t, r.Recycle(nil))
}

func TestRegistryBounded(t *testing.T) {
	r := NewRegistry()
	ok := 0
	for i := 0; i < MaxCap+1; i++ {
		if r.Recycle(&plain{n: i}) {
			ok++
		}
	}
	assert.Equal(t, MaxCap, ok)
	assert.Equal(t, map[string]int{"*pool.plain": MaxCap}, r.Counts())
	r.Dispose()
	assert.Equal(t, 0, r.Count(reflect.TypeOf(&plain{})))
}
