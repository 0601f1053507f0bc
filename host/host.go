package host

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/15mga/hive"
	"github.com/15mga/hive/util"
	"github.com/15mga/hive/world"
)

const (
	DefInterval = time.Millisecond * 33
)

type (
	Option func(o *option)
	option struct {
		interval   time.Duration
		clock      clock.Clock
		profileDur time.Duration
	}
)

// Interval 帧间隔,默认33ms
func Interval(dur time.Duration) Option {
	return func(o *option) {
		o.interval = dur
	}
}

func Clock(c clock.Clock) Option {
	return func(o *option) {
		o.clock = c
	}
}

// Profile 按dur采样主机状态并写info日志,0不采样
func Profile(dur time.Duration) Option {
	return func(o *option) {
		o.profileDur = dur
	}
}

// New 驱动w的帧循环,所有钩子都在Run所在的goroutine执行
func New(w *world.World, opts ...Option) *Host {
	o := &option{
		interval: DefInterval,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.interval <= 0 {
		o.interval = DefInterval
	}
	return &Host{
		option: o,
		world:  w,
	}
}

type Host struct {
	option  *option
	world   *world.World
	frame   atomic.Int64
	running atomic.Bool
}

func (h *Host) World() *world.World {
	return h.world
}

// Frame 已完成的帧数
func (h *Host) Frame() int64 {
	return h.frame.Load()
}

// Tick 执行一帧
func (h *Host) Tick() {
	h.world.Update()
	h.world.LateUpdate()
	h.world.FrameFinishUpdate()
	h.frame.Add(1)
}

// Run 按间隔执行Tick直到ctx结束或world关闭
func (h *Host) Run(ctx context.Context) *util.Err {
	if !h.running.CompareAndSwap(false, true) {
		return util.NewErr(util.EcBusy, util.M{
			"error": "host already running",
		})
	}
	defer h.running.Store(false)

	var profileCh chan util.M
	if h.option.profileDur > 0 {
		profileCh = make(chan util.M, 1)
		util.StartProfile(ctx, h.option.profileDur, profileCh)
	}

	ticker := h.option.clock.Ticker(h.option.interval)
	defer ticker.Stop()
	hive.Info("host start", util.M{
		"interval": h.option.interval.String(),
	})
	for {
		select {
		case <-ctx.Done():
			hive.Info("host stop", util.M{
				"frame": h.Frame(),
			})
			return nil
		case status := <-profileCh:
			status["frame"] = h.Frame()
			hive.Info("profile", status)
		case <-ticker.C:
			if h.world.IsClosed() {
				return util.NewErr(util.EcClosed, util.M{
					"frame": h.Frame(),
				})
			}
			h.Tick()
		}
	}
}
