package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/15mga/hive/util"
)

// Source 按分类名取原始数据,需要线程安全
type Source interface {
	Get(ctx context.Context, name string) ([]byte, *util.Err)
}

func notExist(name string) *util.Err {
	return util.NewErr(util.EcNotExist, util.M{
		"config": name,
	})
}

// NewLocalSource 读取dir/name+ext
func NewLocalSource(dir, ext string) *LocalSource {
	return &LocalSource{
		dir: dir,
		ext: ext,
	}
}

type LocalSource struct {
	dir string
	ext string
}

func (s *LocalSource) Get(ctx context.Context, name string) ([]byte, *util.Err) {
	path := filepath.Join(s.dir, name+s.ext)
	bytes, e := os.ReadFile(path)
	if e == nil {
		return bytes, nil
	}
	if errors.Is(e, os.ErrNotExist) {
		return nil, notExist(name)
	}
	err := util.WrapErr(util.EcIo, e)
	err.AddParam("path", path)
	return nil, err
}

// NewMapSource 内存数据,用于测试或嵌入的默认配置
func NewMapSource() *MapSource {
	return &MapSource{
		m: cmap.New[[]byte](),
	}
}

type MapSource struct {
	m cmap.ConcurrentMap[string, []byte]
}

func (s *MapSource) Set(name string, data []byte) {
	s.m.Set(name, data)
}

func (s *MapSource) Get(ctx context.Context, name string) ([]byte, *util.Err) {
	bytes, ok := s.m.Get(name)
	if !ok {
		return nil, notExist(name)
	}
	return bytes, nil
}
