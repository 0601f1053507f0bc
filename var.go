package hive

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/15mga/hive/ds"
	"github.com/15mga/hive/util"
)

type varItem struct {
	name  string
	usage string
	val   any
}

type Var interface {
	int | int64 | float64 | bool | string
}

var (
	_VarMap = ds.NewKSet[string, *varItem](4, func(item *varItem) string {
		return item.name
	})
)

// AddVar 注册启动参数,可被命令行与同名大写环境变量覆盖,环境变量优先
func AddVar[T Var](name string, def T, usage string) {
	_VarMap.Set(&varItem{
		name:  name,
		val:   def,
		usage: usage,
	})
}

func ParseVar(args []string) *util.Err {
	fs := flag.NewFlagSet("hive", flag.ContinueOnError)
	if err := parseFlag(fs, args); err != nil {
		return err
	}
	return parseEnv()
}

func parseFlag(fs *flag.FlagSet, args []string) *util.Err {
	m := make(map[string]any, _VarMap.Count())
	for _, item := range _VarMap.Values() {
		switch d := item.val.(type) {
		case int:
			m[item.name] = fs.Int(item.name, d, item.usage)
		case int64:
			m[item.name] = fs.Int64(item.name, d, item.usage)
		case float64:
			m[item.name] = fs.Float64(item.name, d, item.usage)
		case bool:
			m[item.name] = fs.Bool(item.name, d, item.usage)
		case string:
			m[item.name] = fs.String(item.name, d, item.usage)
		}
	}
	if e := fs.Parse(args); e != nil {
		return util.WrapErr(util.EcParamsErr, e)
	}
	for _, item := range _VarMap.Values() {
		switch d := m[item.name].(type) {
		case *int:
			item.val = *d
		case *int64:
			item.val = *d
		case *float64:
			item.val = *d
		case *bool:
			item.val = *d
		case *string:
			item.val = *d
		}
	}
	return nil
}

func parseEnv() *util.Err {
	for _, item := range _VarMap.Values() {
		v, ok := os.LookupEnv(strings.ToUpper(item.name))
		if !ok {
			continue
		}
		var e error
		switch item.val.(type) {
		case int:
			item.val, e = strconv.Atoi(v)
		case int64:
			item.val, e = strconv.ParseInt(v, 10, 64)
		case float64:
			item.val, e = strconv.ParseFloat(v, 64)
		case bool:
			item.val, e = strconv.ParseBool(v)
		case string:
			item.val = v
		}
		if e != nil {
			return util.NewErr(util.EcParseErr, util.M{
				"name":  item.name,
				"value": v,
				"error": e.Error(),
			})
		}
	}
	return nil
}

func GetVar[T Var](name string) (T, bool) {
	o, ok := _VarMap.Get(name)
	if !ok {
		return util.Default[T](), false
	}
	v, ok := o.val.(T)
	return v, ok
}

// Vars 当前全部参数,用于启动日志
func Vars() util.M {
	m := make(util.M, _VarMap.Count())
	for _, v := range _VarMap.Values() {
		m[v.name] = v.val
	}
	return m
}
