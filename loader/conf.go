package loader

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/15mga/hive"
	"github.com/15mga/hive/util"
)

const (
	ConfLocalLoader = "local"
	ConfPathSep     = "|"
)

// ConfLoader 把path指向的内容合并进v
type ConfLoader func(path string, v *viper.Viper) *util.Err

var (
	_TypeToLoader   = make(map[string]ConfLoader)
	_ConfPathParser = func(path string) (string, string, *util.Err) {
		ss := strings.Split(path, ConfPathSep)
		if len(ss) != 2 {
			return "", "", util.NewErr(util.EcParamsErr, util.M{
				"path": path,
			})
		}
		return ss[0], ss[1], nil
	}
	_ConfRoot  = ""
	_EnvPrefix = ""
)

func init() {
	SetConfLoader(ConfLocalLoader, confLocalLoader)
}

// SetConfRoot 相对路径的根目录,默认为程序目录
func SetConfRoot(p string) {
	_ConfRoot = p
}

func confRoot() string {
	if _ConfRoot == "" {
		return util.WorkDir()
	}
	return _ConfRoot
}

func SetConfPathParser(parser util.StrToStr2Err) {
	_ConfPathParser = parser
}

// SetConfEnvPrefix 设置后 PREFIX_A_B 覆盖 a.b
func SetConfEnvPrefix(prefix string) {
	_EnvPrefix = prefix
}

// LoadConf 按顺序加载paths,后面的覆盖前面的,最后解码到conf
func LoadConf(conf any, paths ...string) *util.Err {
	if len(paths) == 0 {
		return util.NewErr(util.EcParamsErr, util.M{
			"error": "no conf path",
		})
	}
	vpr := viper.New()
	if _EnvPrefix != "" {
		vpr.SetEnvPrefix(_EnvPrefix)
		vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		vpr.AutomaticEnv()
	}
	for _, p := range paths {
		loaderType, filePath, err := _ConfPathParser(p)
		if err != nil {
			return err
		}
		loader, ok := _TypeToLoader[loaderType]
		if !ok {
			return util.NewErr(util.EcNotExist, util.M{
				"loader type": loaderType,
			})
		}
		if err = loader(filePath, vpr); err != nil {
			return err
		}
		hive.Debug("conf merged", util.M{
			"path": p,
		})
	}
	return decode(vpr, conf)
}

func decode(vpr *viper.Viper, conf any) *util.Err {
	e := vpr.Unmarshal(conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		stringToLevelsHook,
	)))
	if e != nil {
		return util.WrapErr(util.EcUnmarshallErr, e)
	}
	return nil
}

// LogLevels 配置里写最低等级名,如 "info",解码为该等级及以上的掩码
type LogLevels hive.TLevel

func (l LogLevels) Mask() hive.TLevel {
	return hive.TLevel(l)
}

var _LevelsType = reflect.TypeOf(LogLevels(0))

func stringToLevelsHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t != _LevelsType {
		return data, nil
	}
	return LogLevels(hive.LvlToMask(hive.LvlsFrom(hive.StrToLevel(data.(string)))...)), nil
}

func SetConfLoader(typ string, loader ConfLoader) {
	_TypeToLoader[typ] = loader
}

func GetConfLoader(typ string) ConfLoader {
	return _TypeToLoader[typ]
}

func confLocalLoader(p string, v *viper.Viper) *util.Err {
	if !filepath.IsAbs(p) {
		p = filepath.Join(confRoot(), p)
	}
	ext := strings.TrimPrefix(filepath.Ext(p), ".")
	switch ext {
	case "yml":
		ext = "yaml"
	case "":
		ext = "yaml"
	}
	v.SetConfigFile(p)
	v.SetConfigType(ext)
	e := v.MergeInConfig()
	if e != nil {
		return util.NewErr(util.EcParamsErr, util.M{
			"error": e.Error(),
			"path":  p,
		})
	}
	return nil
}

func ConvertConfLocalPath(paths ...string) []string {
	for i, p := range paths {
		paths[i] = ConfLocalLoader + ConfPathSep + p
	}
	return paths
}
