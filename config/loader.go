package config

import (
	"context"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/15mga/hive"
	"github.com/15mga/hive/codetype"
	"github.com/15mga/hive/singleton"
	"github.com/15mga/hive/synctx"
	"github.com/15mga/hive/util"
	"github.com/15mga/hive/worker"
	"github.com/15mga/hive/world"
)

type Options struct {
	Source Source
	// Codec 默认Bson
	Codec Codec
	Index *codetype.Index
	World *world.World
	// Sync LoadAsync需要
	Sync *synctx.Context
	// Key 分类名,默认为类型名最后一段
	Key func(t *codetype.Type) string
}

func DefaultKey(t *codetype.Type) string {
	return util.LastSegment(t.Name, ".")
}

// Loader 加载TagConfig类型的分类数据,解码后注册为单例
type Loader struct {
	singleton.Singleton
	opt    Options
	cache  cmap.ConcurrentMap[string, []byte]
	loaded map[string]singleton.ISingleton
}

func (l *Loader) Awake(opt Options) *util.Err {
	if opt.Source == nil || opt.Index == nil || opt.World == nil {
		return util.NewErr(util.EcParamsErr, util.M{
			"error": "source, index and world are required",
		})
	}
	if opt.Codec == nil {
		opt.Codec = Bson
	}
	if opt.Key == nil {
		opt.Key = DefaultKey
	}
	l.opt = opt
	l.cache = cmap.New[[]byte]()
	l.loaded = make(map[string]singleton.ISingleton)
	return nil
}

type fetched struct {
	key string
	s   singleton.ISingleton
}

func (l *Loader) fetch(ctx context.Context, t *codetype.Type) (fetched, *util.Err) {
	key := l.opt.Key(t)
	data, err := l.opt.Source.Get(ctx, key)
	if err != nil {
		err.AddParam("type", t.Name)
		return fetched{}, err
	}
	l.cache.Set(key, data)
	s, ok := t.New().(singleton.ISingleton)
	if !ok {
		return fetched{}, util.NewErr(util.EcWrongType, util.M{
			"type":  t.Name,
			"error": "config must embed singleton.Singleton",
		})
	}
	if err = l.opt.Codec.Unmarshal(data, s); err != nil {
		err.AddParams(util.M{
			"type":  t.Name,
			"codec": l.opt.Codec.Name(),
		})
		return fetched{}, err
	}
	return fetched{key, s}, nil
}

func (l *Loader) fetchAll(ctx context.Context) ([]fetched, *util.Err) {
	types := l.opt.Index.GetTypes(codetype.TagConfig)
	results := make([]fetched, len(types))
	fns := make([]util.ToErr, len(types))
	for i, t := range types {
		idx, typ := i, t
		fns[i] = func() *util.Err {
			f, err := l.fetch(ctx, typ)
			results[idx] = f
			return err
		}
	}
	if err := worker.All(ctx, fns...); err != nil {
		return nil, err
	}
	return results, nil
}

// register 任一分类注册失败时撤销本次已注册的分类
func (l *Loader) register(results []fetched) *util.Err {
	for i, f := range results {
		err := l.opt.World.AddSingleton(f.s)
		if err == nil {
			l.loaded[f.key] = f.s
			continue
		}
		for j := i - 1; j >= 0; j-- {
			delete(l.loaded, results[j].key)
			if de := l.opt.World.Destroy(results[j].s); de != nil {
				hive.Error(de)
			}
		}
		return err
	}
	return nil
}

// Load 并发拉取全部分类,全部成功后按索引顺序注册
func (l *Loader) Load(ctx context.Context) *util.Err {
	start := time.Now()
	results, err := l.fetchAll(ctx)
	if err != nil {
		return err
	}
	if err = l.register(results); err != nil {
		return err
	}
	hive.Info("config loaded", util.M{
		"count": len(results),
		"dur":   time.Since(start).String(),
	})
	return nil
}

// LoadAsync 在后台拉取,通过synctx在主goroutine注册并回调done
func (l *Loader) LoadAsync(ctx context.Context, done util.FnErr) *util.Err {
	if l.opt.Sync == nil {
		return util.NewErr(util.EcNil, util.M{
			"error": "sync context required",
		})
	}
	worker.Go(func([]any) {
		results, err := l.fetchAll(ctx)
		pe := l.opt.Sync.Post(func() {
			if err == nil {
				err = l.register(results)
			}
			done.Invoke(err)
		})
		if pe != nil {
			hive.Error(pe)
		}
	})
	return nil
}

// Reload 重新拉取单个分类,替换world中的旧实例;失败时旧实例保持不变
func (l *Loader) Reload(ctx context.Context, name string) *util.Err {
	var typ *codetype.Type
	for _, t := range l.opt.Index.GetTypes(codetype.TagConfig) {
		if l.opt.Key(t) == name {
			typ = t
			break
		}
	}
	if typ == nil {
		return notExist(name)
	}
	f, err := l.fetch(ctx, typ)
	if err != nil {
		return err
	}
	if err = l.opt.World.Replace(f.s); err != nil {
		return err
	}
	l.loaded[name] = f.s
	hive.Info("config reloaded", util.M{
		"config": name,
	})
	return nil
}

// Cached 最近一次拉取的原始数据
func (l *Loader) Cached(name string) ([]byte, bool) {
	return l.cache.Get(name)
}

func (l *Loader) Loaded(name string) (singleton.ISingleton, bool) {
	s, ok := l.loaded[name]
	return s, ok
}

func (l *Loader) Dispose() {
	l.cache.Clear()
	l.loaded = nil
}
