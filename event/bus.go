package event

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/15mga/hive"
	"github.com/15mga/hive/ds"
	"github.com/15mga/hive/pool"
	"github.com/15mga/hive/singleton"
	"github.com/15mga/hive/util"
)

type Mode uint8

const (
	// ModeAllowNoHandler 没有handler时不报错
	ModeAllowNoHandler Mode = 1 << iota
	// ModeAllowMultiHandler 同一id可以有多个handler
	ModeAllowMultiHandler
	// ModeAllowDuplicateHandler 同一handler可以重复订阅
	ModeAllowDuplicateHandler

	ModeDefault = ModeAllowNoHandler | ModeAllowMultiHandler
)

// IObserver 用于统计,所有回调都在分发的goroutine上
type IObserver interface {
	EventFired(id Id, deferred bool)
	EventDrained(count int, dur time.Duration)
	HandlerFailed(id Id)
}

type (
	busOption struct {
		mode     Mode
		cap      int
		observer IObserver
	}
	BusOption func(o *busOption)
)

func BusMode(mode Mode) BusOption {
	return func(o *busOption) {
		o.mode = mode
	}
}

// BusCap 延迟事件队列长度,满了Fire返回EcTooMuch
func BusCap(c int) BusOption {
	return func(o *busOption) {
		o.cap = c
	}
}

func BusObserver(observer IObserver) BusOption {
	return func(o *busOption) {
		o.observer = observer
	}
}

type node struct {
	sender any
	args   IArgs
}

func NewBus(opts ...BusOption) *Bus {
	opt := &busOption{
		mode: ModeDefault,
		cap:  4096,
	}
	for _, o := range opts {
		o(opt)
	}
	if opt.cap < 1 {
		opt.cap = 1
	}
	return &Bus{
		opt:      opt,
		handlers: make(map[Id]*ds.Link[*sub], 32),
		ch:       make(chan *node, opt.cap),
		nodes: pool.NewPool[*node](
			pool.PoolMaxCap[*node](opt.cap),
			pool.PoolReset(func(n *node) {
				n.sender = nil
				n.args = nil
			}),
		),
	}
}

// Bus 订阅与分发只能在驱动Update的goroutine上调用,Fire可以在任意goroutine调用
type Bus struct {
	singleton.Singleton
	opt        *busOption
	handlers   map[Id]*ds.Link[*sub]
	defHandler Handler
	ch         chan *node
	nodeMtx    sync.Mutex
	nodes      *pool.Pool[*node]
	closed     atomic.Bool
}

func (b *Bus) Mode() Mode {
	return b.opt.mode
}

// Subscribe owner通常为handler方法的接收者,同一owner的同一方法视为同一handler;
// owner为nil时按闭包实例区分,退订需要传入同一个func值
func (b *Bus) Subscribe(id Id, owner any, handler Handler) *util.Err {
	if handler == nil {
		return util.NewErr(util.EcNil, util.M{
			"id": id,
		})
	}
	if !isComparable(owner) {
		return util.NewErr(util.EcWrongType, util.M{
			"id":    id,
			"error": "owner not comparable",
		})
	}
	s := newSub(owner, handler)
	l, ok := b.handlers[id]
	if !ok {
		l = ds.NewLink[*sub]()
		b.handlers[id] = l
	}
	if l.Count() > 0 {
		if !util.HasBits(ModeAllowMultiHandler, b.opt.mode) {
			return util.NewErr(util.EcExist, util.M{
				"id":    id,
				"error": "multi handler not allowed",
			})
		}
		if !util.HasBits(ModeAllowDuplicateHandler, b.opt.mode) && b.has(l, owner, s.key) {
			return util.NewErr(util.EcExist, util.M{
				"id":    id,
				"error": "duplicate handler",
			})
		}
	}
	l.Push(s)
	return nil
}

// Unsubscribe 重复订阅时只移除最早的一个
func (b *Bus) Unsubscribe(id Id, owner any, handler Handler) *util.Err {
	l, ok := b.handlers[id]
	if !ok || handler == nil || !isComparable(owner) {
		return util.NewErr(util.EcNotExist, util.M{
			"id": id,
		})
	}
	key := handlerKey(owner, handler)
	if !l.Del(func(s *sub) bool {
		return s.is(owner, key)
	}) {
		return util.NewErr(util.EcNotExist, util.M{
			"id": id,
		})
	}
	if l.Count() == 0 {
		delete(b.handlers, id)
	}
	return nil
}

// UnsubscribeOwner 移除owner的全部订阅,返回移除数量
func (b *Bus) UnsubscribeOwner(owner any) int {
	if owner == nil || !isComparable(owner) {
		return 0
	}
	c := 0
	for id, l := range b.handlers {
		for l.Del(func(s *sub) bool {
			return s.owner == owner
		}) {
			c++
		}
		if l.Count() == 0 {
			delete(b.handlers, id)
		}
	}
	return c
}

// Check handler是否已订阅id
func (b *Bus) Check(id Id, owner any, handler Handler) bool {
	l, ok := b.handlers[id]
	if !ok || handler == nil || !isComparable(owner) {
		return false
	}
	return b.has(l, owner, handlerKey(owner, handler))
}

func (b *Bus) has(l *ds.Link[*sub], owner any, key uintptr) bool {
	return l.Any(func(s *sub) bool {
		return s.is(owner, key)
	})
}

func (b *Bus) Count(id Id) int {
	l, ok := b.handlers[id]
	if !ok {
		return 0
	}
	return int(l.Count())
}

// SetDefaultHandler 处理没有订阅者的事件,传nil取消
func (b *Bus) SetDefaultHandler(handler Handler) {
	b.defHandler = handler
}

// Fire 线程安全,事件在下一次Update时分发
func (b *Bus) Fire(sender any, args IArgs) *util.Err {
	if args == nil {
		return util.NewErr(util.EcNil, nil)
	}
	if b.closed.Load() {
		return util.NewErr(util.EcClosed, util.M{
			"id": args.Id(),
		})
	}
	b.nodeMtx.Lock()
	n := b.nodes.Fetch()
	b.nodeMtx.Unlock()
	n.sender = sender
	n.args = args
	select {
	case b.ch <- n:
		return nil
	default:
		b.recycle(n)
		return util.NewErr(util.EcTooMuch, util.M{
			"id":  args.Id(),
			"cap": b.opt.cap,
		})
	}
}

// FireNow 在当前goroutine上立即分发
func (b *Bus) FireNow(sender any, args IArgs) *util.Err {
	if args == nil {
		return util.NewErr(util.EcNil, nil)
	}
	if b.closed.Load() {
		return util.NewErr(util.EcClosed, util.M{
			"id": args.Id(),
		})
	}
	if b.opt.observer != nil {
		b.opt.observer.EventFired(args.Id(), false)
	}
	return b.dispatch(sender, args)
}

// Update 分发本次调用开始前已入队的事件
func (b *Bus) Update() {
	c := len(b.ch)
	if c == 0 {
		return
	}
	start := time.Now()
	drained := 0
	for ; drained < c && !b.closed.Load(); drained++ {
		var n *node
		select {
		case n = <-b.ch:
		default:
		}
		if n == nil {
			break
		}
		sender, args := n.sender, n.args
		b.recycle(n)
		if b.opt.observer != nil {
			b.opt.observer.EventFired(args.Id(), true)
		}
		hive.Error(b.dispatch(sender, args))
	}
	if b.opt.observer != nil {
		b.opt.observer.EventDrained(drained, time.Since(start))
	}
}

// Len 待分发的事件数
func (b *Bus) Len() int {
	return len(b.ch)
}

func (b *Bus) dispatch(sender any, args IArgs) *util.Err {
	id := args.Id()
	l, ok := b.handlers[id]
	if ok && l.Count() > 0 {
		l.Iter(func(s *sub) {
			b.invoke(id, s.h, sender, args)
		})
		return nil
	}
	if b.defHandler != nil {
		b.invoke(id, b.defHandler, sender, args)
		return nil
	}
	if util.HasBits(ModeAllowNoHandler, b.opt.mode) {
		return nil
	}
	return util.NewErr(util.EcNotExist, util.M{
		"id":    id,
		"error": "no handler",
	})
}

func (b *Bus) invoke(id Id, h Handler, sender any, args IArgs) {
	defer func() {
		if r := recover(); r != nil {
			hive.Error(util.Recover(r, util.M{
				"event": id,
			}))
			if b.opt.observer != nil {
				b.opt.observer.HandlerFailed(id)
			}
		}
	}()
	h(sender, args)
}

func (b *Bus) recycle(n *node) {
	b.nodeMtx.Lock()
	b.nodes.Recycle(n)
	b.nodeMtx.Unlock()
}

// Dispose 清空订阅并丢弃未分发的事件
func (b *Bus) Dispose() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}
	for {
		select {
		case n := <-b.ch:
			b.recycle(n)
		default:
			b.handlers = make(map[Id]*ds.Link[*sub])
			b.defHandler = nil
			return
		}
	}
}
