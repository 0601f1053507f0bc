package world

import (
	"reflect"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/15mga/hive"
	"github.com/15mga/hive/ds"
	"github.com/15mga/hive/singleton"
	"github.com/15mga/hive/util"
)

const (
	HookAwake      = "awake"
	HookUpdate     = "update"
	HookLateUpdate = "late_update"
	HookDispose    = "dispose"
)

// IObserver 用于统计,回调在驱动World的goroutine上
type IObserver interface {
	SingletonAdded(name string)
	SingletonRemoved(name string)
	HookFailed(name, hook string)
	TickDone(hook string, count int, dur time.Duration)
}

type (
	worldOption struct {
		observer IObserver
	}
	Option func(o *worldOption)
)

func Observer(observer IObserver) Option {
	return func(o *worldOption) {
		o.observer = observer
	}
}

func New(opts ...Option) *World {
	opt := &worldOption{}
	for _, o := range opts {
		o(opt)
	}
	return &World{
		opt:         opt,
		types:       make(map[reflect.Type]singleton.ISingleton, 32),
		stack:       make([]singleton.ISingleton, 0, 32),
		updates:     ds.NewLink[singleton.IUpdate](),
		lateUpdates: ds.NewLink[singleton.ILateUpdate](),
	}
}

// World 持有全部单例服务,按创建顺序Update,按相反顺序销毁。
// 除WaitFrameFinish外只能在驱动Update的goroutine上调用
type World struct {
	opt         *worldOption
	types       map[reflect.Type]singleton.ISingleton
	stack       []singleton.ISingleton
	updates     *ds.Link[singleton.IUpdate]
	lateUpdates *ds.Link[singleton.ILateUpdate]
	frameMtx    sync.Mutex
	frameCh     chan struct{}
	closed      bool
}

// AddSingleton 注册已创建的实例,实现了IAwake时先调用Awake
func (w *World) AddSingleton(s singleton.ISingleton) *util.Err {
	var awake func() *util.Err
	if a, ok := s.(singleton.IAwake); ok {
		awake = a.Awake
	}
	return w.add(s, awake)
}

func (w *World) add(s singleton.ISingleton, awake func() *util.Err) *util.Err {
	if w.closed {
		return util.NewErr(util.EcClosed, util.M{
			"singleton": singleton.Name(s),
		})
	}
	if s == nil || reflect.ValueOf(s).IsNil() {
		return util.NewErr(util.EcNil, nil)
	}
	t := reflect.TypeOf(s)
	name := t.String()
	if _, ok := w.types[t]; ok {
		return util.NewErr(util.EcExist, util.M{
			"singleton": name,
			"error":     "duplicate singleton",
		})
	}
	if err := singleton.Register(s); err != nil {
		return err
	}
	w.types[t] = s
	w.stack = append(w.stack, s)

	if awake != nil {
		var err *util.Err
		if pe := util.SafeCall(func() {
			err = awake()
		}, util.M{"singleton": name, "hook": HookAwake}); pe != nil {
			err = pe
		}
		if err != nil {
			w.remove(t, s)
			if _, de := singleton.Destroy(s); de != nil {
				hive.Error(de)
			}
			err.AddParam("singleton", name)
			if w.opt.observer != nil {
				w.opt.observer.HookFailed(name, HookAwake)
			}
			return err
		}
	}

	if u, ok := s.(singleton.IUpdate); ok {
		w.updates.Push(u)
	}
	if u, ok := s.(singleton.ILateUpdate); ok {
		w.lateUpdates.Push(u)
	}
	hive.Debug("add singleton", util.M{
		"singleton": name,
	})
	if w.opt.observer != nil {
		w.opt.observer.SingletonAdded(name)
	}
	return nil
}

func (w *World) remove(t reflect.Type, s singleton.ISingleton) {
	delete(w.types, t)
	w.unstack(s)
}

func (w *World) unstack(s singleton.ISingleton) {
	for i := len(w.stack) - 1; i >= 0; i-- {
		if w.stack[i] == s {
			w.stack = append(w.stack[:i], w.stack[i+1:]...)
			break
		}
	}
}

// Has t为指针类型,如reflect.TypeOf(&Foo{})
func (w *World) Has(t reflect.Type) bool {
	_, ok := w.types[t]
	return ok
}

func (w *World) GetByType(t reflect.Type) (singleton.ISingleton, bool) {
	s, ok := w.types[t]
	return s, ok
}

func (w *World) Count() int {
	return len(w.stack)
}

// Singletons 按创建顺序
func (w *World) Singletons() []singleton.ISingleton {
	slc := make([]singleton.ISingleton, len(w.stack))
	copy(slc, w.stack)
	return slc
}

func (w *World) IsClosed() bool {
	return w.closed
}

// Update 本帧新加入的服务下一帧才会被调用,已销毁的服务会被移出队列
func (w *World) Update() {
	c := w.updates.Count()
	start := time.Now()
	for i := uint32(0); i < c; i++ {
		u, ok := w.updates.Pop()
		if !ok {
			break
		}
		if u.IsDisposed() {
			continue
		}
		w.updates.Push(u)
		w.invoke(u, HookUpdate, u.Update)
	}
	if w.opt.observer != nil {
		w.opt.observer.TickDone(HookUpdate, int(c), time.Since(start))
	}
}

func (w *World) LateUpdate() {
	c := w.lateUpdates.Count()
	start := time.Now()
	for i := uint32(0); i < c; i++ {
		u, ok := w.lateUpdates.Pop()
		if !ok {
			break
		}
		if u.IsDisposed() {
			continue
		}
		w.lateUpdates.Push(u)
		w.invoke(u, HookLateUpdate, u.LateUpdate)
	}
	if w.opt.observer != nil {
		w.opt.observer.TickDone(HookLateUpdate, int(c), time.Since(start))
	}
}

func (w *World) invoke(s singleton.ISingleton, hook string, fn util.Fn) {
	name := singleton.Name(s)
	err := util.SafeCall(fn, util.M{
		"singleton": name,
		"hook":      hook,
	})
	if err == nil {
		return
	}
	hive.Error(err)
	if w.opt.observer != nil {
		w.opt.observer.HookFailed(name, hook)
	}
}

// WaitFrameFinish 下一次FrameFinishUpdate时关闭,可在任意goroutine调用
func (w *World) WaitFrameFinish() <-chan struct{} {
	w.frameMtx.Lock()
	defer w.frameMtx.Unlock()
	if w.frameCh == nil {
		w.frameCh = make(chan struct{})
	}
	return w.frameCh
}

func (w *World) FrameFinishUpdate() {
	w.frameMtx.Lock()
	ch := w.frameCh
	w.frameCh = nil
	w.frameMtx.Unlock()
	if ch != nil {
		close(ch)
	}
}

// Destroy 提前销毁单个服务,Close时不会再处理它
func (w *World) Destroy(s singleton.ISingleton) *util.Err {
	if s == nil || reflect.ValueOf(s).IsNil() {
		return util.NewErr(util.EcNil, nil)
	}
	t := reflect.TypeOf(s)
	cur, ok := w.types[t]
	if !ok || cur != s {
		return util.NewErr(util.EcNotExist, util.M{
			"singleton": t.String(),
		})
	}
	w.remove(t, s)
	return w.destroy(s)
}

// Replace 用s替换同类型的已注册实例。s注册或Awake失败时旧实例保持注册,成功后销毁旧实例
func (w *World) Replace(s singleton.ISingleton) *util.Err {
	if s == nil || reflect.ValueOf(s).IsNil() {
		return util.NewErr(util.EcNil, nil)
	}
	t := reflect.TypeOf(s)
	old, ok := w.types[t]
	if !ok {
		return w.AddSingleton(s)
	}
	if old == s {
		return util.NewErr(util.EcExist, util.M{
			"singleton": t.String(),
		})
	}
	delete(w.types, t)
	if err := w.AddSingleton(s); err != nil {
		w.types[t] = old
		return err
	}
	w.unstack(old)
	_ = w.destroy(old)
	return nil
}

func (w *World) destroy(s singleton.ISingleton) *util.Err {
	name := singleton.Name(s)
	_, err := singleton.Destroy(s)
	if err != nil {
		hive.Error(err)
		if w.opt.observer != nil {
			w.opt.observer.HookFailed(name, HookDispose)
		}
	}
	hive.Debug("destroy singleton", util.M{
		"singleton": name,
	})
	if w.opt.observer != nil {
		w.opt.observer.SingletonRemoved(name)
	}
	return err
}

// Close 按创建的相反顺序销毁全部服务,重复调用无效。返回Dispose中的全部错误
func (w *World) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	var errs error
	for len(w.stack) > 0 {
		i := len(w.stack) - 1
		s := w.stack[i]
		w.stack[i] = nil
		w.stack = w.stack[:i]
		delete(w.types, reflect.TypeOf(s))
		if err := w.destroy(s); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	w.updates.Dispose()
	w.lateUpdates.Dispose()
	w.FrameFinishUpdate()
	return errs
}
