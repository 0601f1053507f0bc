package util

import (
	"os"
	"path/filepath"
	"sync"
)

var (
	_WorkDirOnce sync.Once
	_WorkDir     string
)

// WorkDir 可执行文件所在目录,用于解析相对的配置路径
func WorkDir() string {
	_WorkDirOnce.Do(func() {
		p, err := os.Executable()
		if err != nil {
			panic(err)
		}
		_WorkDir = filepath.ToSlash(filepath.Dir(p))
	})
	return _WorkDir
}
