package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/15mga/hive"
	"github.com/15mga/hive/cmd/hived/demo"
	"github.com/15mga/hive/codetype"
	"github.com/15mga/hive/config"
	"github.com/15mga/hive/event"
	"github.com/15mga/hive/host"
	"github.com/15mga/hive/loader"
	"github.com/15mga/hive/metrics"
	"github.com/15mga/hive/pool"
	"github.com/15mga/hive/sid"
	"github.com/15mga/hive/synctx"
	"github.com/15mga/hive/util"
	"github.com/15mga/hive/world"
)

func init() {
	hive.AddVar("conf", "hived.yml", "conf file, relative to the executable dir")
	hive.AddVar("env", "HIVED", "env prefix overriding conf keys")
}

func main() {
	if err := hive.ParseVar(os.Args[1:]); err != nil {
		hive.Fatal(err)
	}
	confPath, _ := hive.GetVar[string]("conf")
	envPrefix, _ := hive.GetVar[string]("env")

	conf := defConf()
	loader.SetConfEnvPrefix(envPrefix)
	if err := loader.LoadConf(conf, loader.ConvertConfLocalPath(confPath)...); err != nil {
		hive.Fatal(err)
	}
	if err := sid.SetNodeId(conf.NodeId); err != nil {
		hive.Fatal(err)
	}

	ctx := hive.Ctx()
	if err := setupLogger(ctx, conf); err != nil {
		hive.Fatal(err)
	}
	hive.Info("start", hive.Vars())

	w, err := boot(ctx, conf)
	if err != nil {
		hive.Fatal(err)
	}

	h := host.New(w, host.Interval(conf.Tick), host.Profile(conf.Profile))
	hostDone := make(chan *util.Err, 1)
	go func() {
		hostDone <- h.Run(ctx)
		hive.Cancel()
	}()

	hive.WaitExit()
	if err = <-hostDone; err != nil {
		hive.Error(err)
	}
	if e := w.Close(); e != nil {
		hive.Error3(util.EcServiceErr, e)
	}
	hive.Info("exit", util.M{
		"frame": h.Frame(),
	})
}

func boot(ctx context.Context, conf *Conf) (*world.World, *util.Err) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(conf.Name, reg)
	if err != nil {
		return nil, err
	}
	w := world.New(world.Observer(m))

	objs := pool.NewRegistry()
	if err = w.AddSingleton(objs); err != nil {
		return nil, err
	}
	reg.MustRegister(metrics.NewPoolCollector(conf.Name, objs))
	bus := event.NewBus(event.BusObserver(m))
	if err = w.AddSingleton(bus); err != nil {
		return nil, err
	}
	sc, err := world.Add[synctx.Context](w)
	if err != nil {
		return nil, err
	}

	index, err := world.Add1[codetype.Index](w, demo.Assemblies(w, bus, objs))
	if err != nil {
		return nil, err
	}

	src, watch, err := newSource(ctx, conf.Config)
	if err != nil {
		return nil, err
	}
	codec, ok := config.CodecByName(conf.Config.Codec)
	if !ok {
		return nil, util.NewErr(util.EcParamsErr, util.M{
			"codec": conf.Config.Codec,
		})
	}
	cl, err := world.Add1[config.Loader](w, config.Options{
		Source: src,
		Codec:  codec,
		Index:  index,
		World:  w,
		Sync:   sc,
	})
	if err != nil {
		return nil, err
	}
	if err = cl.Load(ctx); err != nil {
		return nil, err
	}
	if watch != nil {
		watch(ctx, func(name string) {
			_ = sc.Post(func() {
				if err := cl.Reload(ctx, name); err != nil {
					hive.Error(err)
				}
			})
		})
	}

	if err = index.CreateCode(w); err != nil {
		return nil, err
	}

	if conf.Metrics != "" {
		l := metrics.NewListener(reg, metrics.ListenerAddr(conf.Metrics))
		if err = l.Start(); err != nil {
			return nil, err
		}
		hive.BeforeExitFn("metrics", l.Close)
	}
	hive.Info("world ready", util.M{
		"singletons": w.Count(),
		"types":      index.Count(),
	})
	return w, nil
}
