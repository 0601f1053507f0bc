package config

import (
	"context"

	etcd "go.etcd.io/etcd/client/v3"

	"github.com/15mga/hive/util"
)

// NewEtcdSource 读取prefix+name
func NewEtcdSource(client *etcd.Client, prefix string) *EtcdSource {
	return &EtcdSource{
		client: client,
		prefix: prefix,
	}
}

type EtcdSource struct {
	client *etcd.Client
	prefix string
}

func (s *EtcdSource) Get(ctx context.Context, name string) ([]byte, *util.Err) {
	res, e := s.client.Get(ctx, s.prefix+name)
	if e != nil {
		return nil, util.WrapErr(util.EcEtcdErr, e)
	}
	if len(res.Kvs) == 0 {
		return nil, notExist(name)
	}
	return res.Kvs[0].Value, nil
}

func (s *EtcdSource) Put(ctx context.Context, name string, data []byte) *util.Err {
	_, e := s.client.Put(ctx, s.prefix+name, util.BytesToStr(data))
	if e != nil {
		return util.WrapErr(util.EcEtcdErr, e)
	}
	return nil
}

// Watch 分类被修改时回调name,ctx结束后停止
func (s *EtcdSource) Watch(ctx context.Context, fn util.FnStr) {
	ch := s.client.Watch(ctx, s.prefix, etcd.WithPrefix())
	go func() {
		for res := range ch {
			for _, ev := range res.Events {
				if ev.Type != etcd.EventTypePut {
					continue
				}
				fn(string(ev.Kv.Key[len(s.prefix):]))
			}
		}
	}()
}
