package main

import (
	"context"
	"path/filepath"
	"time"

	etcd "go.etcd.io/etcd/client/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/15mga/hive"
	"github.com/15mga/hive/config"
	"github.com/15mga/hive/util"
)

// newSource 返回的watch不为nil时,分类修改会回调
func newSource(ctx context.Context, conf SourceConf) (config.Source, func(context.Context, util.FnStr), *util.Err) {
	switch conf.Type {
	case "local":
		dir := conf.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(util.WorkDir(), dir)
		}
		return config.NewLocalSource(dir, conf.Ext), nil, nil
	case "http":
		var opts []config.HttpOption
		if conf.Token != "" {
			opts = append(opts, config.HttpHeader("Authorization", "Bearer "+conf.Token))
		}
		return config.NewHttpSource(conf.Url, conf.Ext, opts...), nil, nil
	case "mongo":
		client, e := mongo.Connect(ctx, options.Client().ApplyURI(conf.Mongo))
		if e != nil {
			return nil, nil, util.WrapErr(util.EcDbErr, e)
		}
		hive.BeforeExitFn("config mongo", func() {
			_ = client.Disconnect(context.Background())
		})
		coll := client.Database(conf.Db).Collection(conf.Coll)
		return config.NewMongoSource(coll, conf.Field), nil, nil
	case "redis":
		pool := config.NewRedisPool(conf.Redis, conf.Password, 0, 4)
		hive.BeforeExitFn("config redis", func() {
			_ = pool.Close()
		})
		return config.NewRedisSource(pool, conf.Prefix), nil, nil
	case "etcd":
		client, e := etcd.New(etcd.Config{
			Endpoints:   conf.Etcd,
			DialTimeout: time.Second * 5,
		})
		if e != nil {
			return nil, nil, util.WrapErr(util.EcEtcdErr, e)
		}
		hive.BeforeExitFn("config etcd", func() {
			_ = client.Close()
		})
		src := config.NewEtcdSource(client, conf.Prefix)
		if conf.Watch {
			return src, src.Watch, nil
		}
		return src, nil, nil
	case "dynamo":
		client, err := config.ConnDynamo(ctx, conf.Region, conf.Endpoint)
		if err != nil {
			return nil, nil, err
		}
		return config.NewDynamoSource(client, conf.Table, "name", conf.Field), nil, nil
	default:
		return nil, nil, util.NewErr(util.EcParamsErr, util.M{
			"source": conf.Type,
		})
	}
}
