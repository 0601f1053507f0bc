package demo

import (
	"github.com/15mga/hive"
	"github.com/15mga/hive/codetype"
	"github.com/15mga/hive/event"
	"github.com/15mga/hive/pool"
	"github.com/15mga/hive/singleton"
	"github.com/15mga/hive/util"
	"github.com/15mga/hive/world"
)

// ServerConf data/ServerConf.json
type ServerConf struct {
	singleton.Singleton
	BeatEvery int    `json:"beatEvery" bson:"beatEvery"`
	Motd      string `json:"motd" bson:"motd"`
}

// Beat Heartbeat每BeatEvery帧发出一次
type Beat struct {
	Frame int64
	Seq   int64
}

var BeatId = event.IdOf[Beat]()

func (b *Beat) Id() event.Id {
	return BeatId
}

func (b *Beat) Reset() {
	b.Frame = 0
	b.Seq = 0
}

// Assemblies 模块依赖通过工厂闭包注入
func Assemblies(w *world.World, bus *event.Bus, reg *pool.Registry) []*codetype.Assembly {
	heartbeat := codetype.Define[Heartbeat](codetype.TagModule)
	heartbeat.New = func() any {
		return &Heartbeat{world: w, bus: bus, reg: reg}
	}
	stats := codetype.Define[Stats](codetype.TagModule)
	stats.New = func() any {
		return &Stats{bus: bus, reg: reg}
	}
	return []*codetype.Assembly{
		codetype.NewAssembly("demo.conf", codetype.Define[ServerConf](codetype.TagConfig)),
		codetype.NewAssembly("demo.module", stats, heartbeat),
	}
}

type Heartbeat struct {
	singleton.Singleton
	world *world.World
	bus   *event.Bus
	reg   *pool.Registry
	every int64
	frame int64
	seq   int64
}

func (h *Heartbeat) Awake() *util.Err {
	h.every = 30
	if conf, ok := world.Get[*ServerConf](h.world); ok {
		if conf.BeatEvery > 0 {
			h.every = int64(conf.BeatEvery)
		}
		hive.Info(conf.Motd, nil)
	}
	return nil
}

func (h *Heartbeat) Update() {
	h.frame++
	if h.frame%h.every != 0 {
		return
	}
	h.seq++
	beat := pool.Fetch[*Beat](h.reg)
	beat.Frame = h.frame
	beat.Seq = h.seq
	if err := h.bus.Fire(h, beat); err != nil {
		h.reg.Recycle(beat)
		hive.Warn(err)
	}
}

type Stats struct {
	singleton.Singleton
	bus   *event.Bus
	reg   *pool.Registry
	beats int64
	last  int64
}

func (s *Stats) Awake() *util.Err {
	return s.bus.Subscribe(BeatId, s, s.onBeat)
}

func (s *Stats) onBeat(sender any, args event.IArgs) {
	beat := args.(*Beat)
	s.beats++
	s.last = beat.Frame
	hive.Debug("beat", util.M{
		"seq":   beat.Seq,
		"frame": beat.Frame,
	})
	s.reg.Recycle(beat)
}

func (s *Stats) Beats() int64 {
	return s.beats
}

func (s *Stats) LastFrame() int64 {
	return s.last
}

func (s *Stats) Dispose() {
	s.bus.UnsubscribeOwner(s)
}
