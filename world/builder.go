package world

import (
	"reflect"

	"github.com/15mga/hive/singleton"
	"github.com/15mga/hive/util"
)

// Add 创建T并注册,T实现IAwake时调用Awake
func Add[T any, P interface {
	*T
	singleton.ISingleton
}](w *World) (P, *util.Err) {
	p := P(new(T))
	if err := w.AddSingleton(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Add1 创建T,以a调用Awake后注册
func Add1[T, A any, P interface {
	*T
	singleton.ISingleton
	singleton.IAwake1[A]
}](w *World, a A) (P, *util.Err) {
	p := P(new(T))
	if err := w.add(p, func() *util.Err {
		return p.Awake(a)
	}); err != nil {
		return nil, err
	}
	return p, nil
}

func Add2[T, A, B any, P interface {
	*T
	singleton.ISingleton
	singleton.IAwake2[A, B]
}](w *World, a A, b B) (P, *util.Err) {
	p := P(new(T))
	if err := w.add(p, func() *util.Err {
		return p.Awake(a, b)
	}); err != nil {
		return nil, err
	}
	return p, nil
}

func Add3[T, A, B, C any, P interface {
	*T
	singleton.ISingleton
	singleton.IAwake3[A, B, C]
}](w *World, a A, b B, c C) (P, *util.Err) {
	p := P(new(T))
	if err := w.add(p, func() *util.Err {
		return p.Awake(a, b, c)
	}); err != nil {
		return nil, err
	}
	return p, nil
}

// Get P为注册时的指针类型
func Get[P singleton.ISingleton](w *World) (P, bool) {
	s, ok := w.types[typeOf[P]()]
	if !ok {
		var zero P
		return zero, false
	}
	p, ok := s.(P)
	return p, ok
}

func Has[P singleton.ISingleton](w *World) bool {
	return w.Has(typeOf[P]())
}

func typeOf[P any]() reflect.Type {
	return reflect.TypeOf((*P)(nil)).Elem()
}
