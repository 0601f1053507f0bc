package codetype

import (
	"reflect"
)

type Tag string

const (
	// TagModule 启动时实例化并注册到world
	TagModule Tag = "module"
	// TagConfig 由config.Loader加载
	TagConfig Tag = "config"
)

// Type 注册表中的一项,New为nil的具体类型会在Awake时报错
type Type struct {
	Name     string
	Abstract bool
	Tags     []Tag
	Reflect  reflect.Type
	New      func() any
}

// HasTag 是否带有tag
func (t *Type) HasTag(tag Tag) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

func (t *Type) String() string {
	return t.Name
}

// Define 具体类型,New返回*T
func Define[T any](tags ...Tag) *Type {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	return &Type{
		Name:    FullName(rt),
		Tags:    tags,
		Reflect: reflect.PointerTo(rt),
		New: func() any {
			return new(T)
		},
	}
}

// Abstract 只用于声明,不会被实例化也不进入索引
func Abstract[T any](tags ...Tag) *Type {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	return &Type{
		Name:     FullName(rt),
		Abstract: true,
		Tags:     tags,
		Reflect:  rt,
	}
}

// FullName 包路径加类型名,指针取元素类型
func FullName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// NameOf 同FullName
func NameOf[T any]() string {
	return FullName(reflect.TypeOf((*T)(nil)).Elem())
}

// Assembly 一组类型,相当于启动时的注册表
type Assembly struct {
	Name  string
	Types []*Type
}

func NewAssembly(name string, types ...*Type) *Assembly {
	return &Assembly{
		Name:  name,
		Types: types,
	}
}

// Add 追加类型,通常在包的init中调用
func (a *Assembly) Add(types ...*Type) *Assembly {
	a.Types = append(a.Types, types...)
	return a
}
