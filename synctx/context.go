package synctx

import (
	"sync"

	"github.com/15mga/hive"
	"github.com/15mga/hive/singleton"
	"github.com/15mga/hive/util"
)

// Context 其他goroutine通过Post把回调交给驱动Update的goroutine执行
type Context struct {
	singleton.Singleton
	mtx     sync.Mutex
	pending []util.Fn
	running []util.Fn
	closed  bool
}

// Post 线程安全
func (c *Context) Post(fn util.Fn) *util.Err {
	if fn == nil {
		return util.NewErr(util.EcNil, nil)
	}
	c.mtx.Lock()
	if c.closed {
		c.mtx.Unlock()
		return util.NewErr(util.EcClosed, nil)
	}
	c.pending = append(c.pending, fn)
	c.mtx.Unlock()
	return nil
}

// Update 执行本次调用前Post的回调,回调中再Post的下一次Update执行
func (c *Context) Update() {
	c.mtx.Lock()
	if len(c.pending) == 0 {
		c.mtx.Unlock()
		return
	}
	c.pending, c.running = c.running[:0], c.pending
	c.mtx.Unlock()

	for i, fn := range c.running {
		if err := util.SafeCall(fn, util.M{"post": i}); err != nil {
			hive.Error(err)
		}
		c.running[i] = nil
	}
}

func (c *Context) Len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return len(c.pending)
}

// Dispose 丢弃未执行的回调
func (c *Context) Dispose() {
	c.mtx.Lock()
	c.closed = true
	c.pending = nil
	c.mtx.Unlock()
}
