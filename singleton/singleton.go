package singleton

import (
	"reflect"

	"github.com/15mga/hive/util"
)

type TState uint8

const (
	StateUnregistered TState = iota
	StateRegistered
	StateDisposed
)

func (s TState) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StateRegistered:
		return "registered"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// ISingleton 只能通过嵌入Singleton实现
type ISingleton interface {
	State() TState
	IsDisposed() bool
	base() *Singleton
}

// Singleton 服务基类,状态只会 Unregistered -> Registered -> Disposed
type Singleton struct {
	state TState
}

func (s *Singleton) base() *Singleton {
	return s
}

func (s *Singleton) State() TState {
	return s.state
}

func (s *Singleton) IsDisposed() bool {
	return s.state == StateDisposed
}

type (
	IAwake interface {
		Awake() *util.Err
	}
	IAwake1[A any] interface {
		Awake(A) *util.Err
	}
	IAwake2[A, B any] interface {
		Awake(A, B) *util.Err
	}
	IAwake3[A, B, C any] interface {
		Awake(A, B, C) *util.Err
	}
	IUpdate interface {
		ISingleton
		Update()
	}
	ILateUpdate interface {
		ISingleton
		LateUpdate()
	}
	IDispose interface {
		Dispose()
	}
)

func isNil(s ISingleton) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Register 标记为已注册,同一实例只能注册一次,销毁后不能再注册
func Register(s ISingleton) *util.Err {
	if isNil(s) {
		return util.NewErr(util.EcNil, nil)
	}
	b := s.base()
	switch b.state {
	case StateRegistered:
		return util.NewErr(util.EcExist, util.M{
			"singleton": Name(s),
		})
	case StateDisposed:
		return util.NewErr(util.EcClosed, util.M{
			"singleton": Name(s),
		})
	}
	b.state = StateRegistered
	return nil
}

// Destroy 标记为已销毁并调用Dispose,重复调用返回false;Dispose的panic转为错误返回
func Destroy(s ISingleton) (bool, *util.Err) {
	if isNil(s) {
		return false, nil
	}
	b := s.base()
	if b.state == StateDisposed {
		return false, nil
	}
	b.state = StateDisposed
	d, ok := s.(IDispose)
	if !ok {
		return true, nil
	}
	return true, util.SafeCall(d.Dispose, util.M{
		"singleton": Name(s),
	})
}

func Type(s ISingleton) reflect.Type {
	return reflect.TypeOf(s)
}

func Name(s ISingleton) string {
	if s == nil {
		return "nil"
	}
	return reflect.TypeOf(s).String()
}
