package worker

import (
	"sync"

	"github.com/15mga/hive"
	"github.com/15mga/hive/util"
)

// NewWorker 多生产者单消费者队列,fn始终在同一个goroutine上执行
func NewWorker[T any](fn func(T)) *Worker[T] {
	return &Worker[T]{
		ch: make(chan struct{}, 1),
		fn: fn,
		pool: sync.Pool{
			New: func() any {
				return &job[T]{}
			},
		},
	}
}

type Worker[T any] struct {
	mtx      sync.Mutex
	ch       chan struct{}
	head     *job[T]
	tail     *job[T]
	curr     *job[T]
	fn       func(T)
	pool     sync.Pool
	disposed bool
}

func (w *Worker[T]) Start() {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				hive.Error(util.Recover(r, util.M{
					"worker": "mpsc",
				}))
				w.Start()
			}
		}()

		w.do()

		for range w.ch {
			for {
				w.mtx.Lock()
				w.curr = w.head
				w.head = nil
				w.tail = nil
				w.mtx.Unlock()

				if w.curr == nil {
					break
				}
				w.do()
			}
		}
	}()
}

func (w *Worker[T]) Dispose() {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	if w.disposed {
		return
	}
	w.disposed = true
	close(w.ch)
}

// Push 返回false表示已Dispose
func (w *Worker[T]) Push(item T) bool {
	e := w.pool.Get().(*job[T])
	e.value = item
	w.mtx.Lock()
	if w.disposed {
		w.mtx.Unlock()
		w.pool.Put(e)
		return false
	}
	if w.head != nil {
		w.tail.next = e
	} else {
		w.head = e
	}
	w.tail = e
	w.mtx.Unlock()

	select {
	case w.ch <- struct{}{}:
	default:
	}
	return true
}

func (w *Worker[T]) do() {
	for w.curr != nil {
		j := w.curr
		val := j.value
		w.curr = j.next
		j.next = nil
		j.value = util.Default[T]()
		w.pool.Put(j)
		w.fn(val)
	}
}

type job[T any] struct {
	next  *job[T]
	value T
}
