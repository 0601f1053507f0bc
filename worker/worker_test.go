package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/15mga/hive/util"
)

func TestWorkerOrder(t *testing.T) {
	var (
		wg  sync.WaitGroup
		got []int
	)
	w := NewWorker(func(i int) {
		got = append(got, i)
		wg.Done()
	})
	w.Start()
	wg.Add(100)
	for i := 0; i < 100; i++ {
		assert.True(t, w.Push(i))
	}
	wg.Wait()
	for i, v := range got {
		assert.Equal(t, i, v)
	}
	w.Dispose()
	w.Dispose()
	assert.False(t, w.Push(0))
}

func TestWorkerRecover(t *testing.T) {
	var wg sync.WaitGroup
	var n int32
	w := NewWorker(func(i int) {
		defer wg.Done()
		if i == 0 {
			panic("boom")
		}
		atomic.AddInt32(&n, 1)
	})
	w.Start()
	wg.Add(1)
	w.Push(0)
	wg.Wait()
	wg.Add(2)
	w.Push(1)
	w.Push(2)
	wg.Wait()
	assert.Equal(t, int32(2), atomic.LoadInt32(&n))
	w.Dispose()
}

func TestAll(t *testing.T) {
	var n int32
	err := All(context.Background(),
		func() *util.Err {
			atomic.AddInt32(&n, 1)
			return nil
		},
		func() *util.Err {
			atomic.AddInt32(&n, 1)
			return util.NewErr(util.EcNotExist, nil)
		},
		func() *util.Err {
			panic("boom")
		},
	)
	assert.NotNil(t, err)
	assert.Equal(t, util.EcNotExist, err.Code())
	assert.Equal(t, int32(2), atomic.LoadInt32(&n))
	assert.Nil(t, All(context.Background()))
}

func TestGo(t *testing.T) {
	ch := make(chan any, 1)
	Go(func(params []any) {
		ch <- params[0]
	}, "a")
	select {
	case v := <-ch:
		assert.Equal(t, "a", v)
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}
