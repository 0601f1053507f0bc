package codetype

import (
	"github.com/15mga/hive"
	"github.com/15mga/hive/singleton"
	"github.com/15mga/hive/util"
)

// Registrar 接收CreateCode创建的模块,world.World实现了它
type Registrar interface {
	AddSingleton(s singleton.ISingleton) *util.Err
}

func NewIndex(tags ...Tag) *Index {
	x := &Index{}
	x.init()
	for _, tag := range tags {
		x.recognized[tag] = struct{}{}
	}
	return x
}

// Index tag到类型的索引,Awake之后只读
type Index struct {
	singleton.Singleton
	awoken     bool
	recognized map[Tag]struct{}
	tagToTypes map[Tag][]*Type
	nameToType map[string]*Type
	asms       []string
}

func (x *Index) init() {
	if x.recognized != nil {
		return
	}
	x.recognized = map[Tag]struct{}{
		TagModule: {},
		TagConfig: {},
	}
}

// Recognize 增加需要索引的tag,必须在Awake之前
func (x *Index) Recognize(tags ...Tag) *util.Err {
	if x.awoken {
		return util.NewErr(util.EcOpened, util.M{
			"error": "index already awake",
		})
	}
	x.init()
	for _, tag := range tags {
		x.recognized[tag] = struct{}{}
	}
	return nil
}

// Awake 扫描全部程序集,只能成功一次
func (x *Index) Awake(asms []*Assembly) *util.Err {
	if x.awoken {
		return util.NewErr(util.EcOpened, util.M{
			"error": "index already awake",
		})
	}
	x.init()
	tagToTypes := make(map[Tag][]*Type, len(x.recognized))
	nameToType := make(map[string]*Type, 64)
	names := make([]string, 0, len(asms))
	for _, asm := range asms {
		if asm == nil {
			continue
		}
		names = append(names, asm.Name)
		for _, t := range asm.Types {
			if t == nil || t.Abstract {
				continue
			}
			if t.New == nil {
				return util.NewErr(util.EcNil, util.M{
					"assembly": asm.Name,
					"type":     t.Name,
					"error":    "missing factory",
				})
			}
			if _, ok := nameToType[t.Name]; ok {
				return util.NewErr(util.EcExist, util.M{
					"assembly": asm.Name,
					"type":     t.Name,
				})
			}
			nameToType[t.Name] = t
			seen := make(map[Tag]struct{}, len(t.Tags))
			for _, tag := range t.Tags {
				if _, ok := x.recognized[tag]; !ok {
					continue
				}
				if _, ok := seen[tag]; ok {
					continue
				}
				seen[tag] = struct{}{}
				tagToTypes[tag] = append(tagToTypes[tag], t)
			}
		}
	}
	x.tagToTypes = tagToTypes
	x.nameToType = nameToType
	x.asms = names
	x.awoken = true
	hive.Debug("code types awake", util.M{
		"assemblies": names,
		"types":      len(nameToType),
	})
	return nil
}

func (x *Index) IsAwoken() bool {
	return x.awoken
}

// GetTypes 没有时返回空切片
func (x *Index) GetTypes(tag Tag) []*Type {
	types := x.tagToTypes[tag]
	slc := make([]*Type, len(types))
	copy(slc, types)
	return slc
}

func (x *Index) GetType(name string) (*Type, bool) {
	t, ok := x.nameToType[name]
	return t, ok
}

func (x *Index) Count() int {
	return len(x.nameToType)
}

func (x *Index) Assemblies() []string {
	return x.asms
}

// CreateCode 按注册顺序实例化TagModule类型并交给r,遇到错误立即返回
func (x *Index) CreateCode(r Registrar) *util.Err {
	if !x.awoken {
		return util.NewErr(util.EcIllegalOp, util.M{
			"error": "index not awake",
		})
	}
	for _, t := range x.tagToTypes[TagModule] {
		s, ok := t.New().(singleton.ISingleton)
		if !ok {
			return util.NewErr(util.EcWrongType, util.M{
				"type":  t.Name,
				"error": "module must embed singleton.Singleton",
			})
		}
		if err := r.AddSingleton(s); err != nil {
			err.AddParam("type", t.Name)
			return err
		}
	}
	return nil
}
