package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/15mga/hive"
	"github.com/15mga/hive/util"
)

type testConf struct {
	Name  string
	Tick  time.Duration
	Tags  []string
	Log   LogLevels
	Mongo struct {
		Uri string
		Db  string
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadConf(t *testing.T) {
	dir := t.TempDir()
	SetConfRoot(dir)
	defer SetConfRoot("")

	writeFile(t, dir, "base.yml", `
name: hived
tick: 50ms
tags: a,b
log: warn
mongo:
  uri: mongodb://localhost:27017
  db: game
`)
	writeFile(t, dir, "local.toml", `
name = "hived-local"
[mongo]
db = "dev"
`)

	var conf testConf
	err := LoadConf(&conf, ConvertConfLocalPath("base.yml", "local.toml")...)
	require.Nil(t, err)
	assert.Equal(t, "hived-local", conf.Name)
	assert.Equal(t, time.Millisecond*50, conf.Tick)
	assert.Equal(t, []string{"a", "b"}, conf.Tags)
	assert.Equal(t, "mongodb://localhost:27017", conf.Mongo.Uri)
	assert.Equal(t, "dev", conf.Mongo.Db)
	assert.Equal(t, hive.LvlToMask(hive.TWarn, hive.TError, hive.TFatal), conf.Log.Mask())
}

func TestLoadConfEnv(t *testing.T) {
	dir := t.TempDir()
	SetConfRoot(dir)
	SetConfEnvPrefix("HIVETEST")
	defer func() {
		SetConfRoot("")
		SetConfEnvPrefix("")
	}()
	writeFile(t, dir, "base.yaml", "name: hived\nmongo:\n  db: game\n")
	t.Setenv("HIVETEST_MONGO_DB", "env")

	var conf testConf
	require.Nil(t, LoadConf(&conf, ConvertConfLocalPath("base.yaml")...))
	assert.Equal(t, "env", conf.Mongo.Db)
}

func TestLoadConfErr(t *testing.T) {
	var conf testConf
	assert.True(t, util.IsErrCode(LoadConf(&conf), util.EcParamsErr))
	assert.True(t, util.IsErrCode(LoadConf(&conf, "bad"), util.EcParamsErr))
	assert.True(t, util.IsErrCode(LoadConf(&conf, "remote|x.yml"), util.EcNotExist))

	SetConfRoot(t.TempDir())
	defer SetConfRoot("")
	assert.True(t, util.IsErrCode(LoadConf(&conf, ConvertConfLocalPath("missing.yml")...), util.EcParamsErr))
}

func TestSetConfLoader(t *testing.T) {
	SetConfLoader("mem", func(path string, v *viper.Viper) *util.Err {
		v.Set("name", path)
		return nil
	})
	defer delete(_TypeToLoader, "mem")
	assert.NotNil(t, GetConfLoader("mem"))

	var conf testConf
	require.Nil(t, LoadConf(&conf, "mem|inline"))
	assert.Equal(t, "inline", conf.Name)
}
