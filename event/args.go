package event

import (
	"hash/fnv"
	"reflect"
	"unsafe"
)

type Id uint32

// IArgs 事件参数,Id决定分发给哪些handler
type IArgs interface {
	Id() Id
}

type Handler func(sender any, args IArgs)

// IdOf 由类型全名生成的固定id,同一类型在不同进程中一致
func IdOf[T any]() Id {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return IdOfName(t.PkgPath() + "." + t.String())
}

func IdOfName(name string) Id {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return Id(h.Sum32())
}

// sub 一次订阅;owner不为nil时以owner+方法区分,否则以闭包实例区分
type sub struct {
	owner any
	key   uintptr
	h     Handler
}

func newSub(owner any, h Handler) *sub {
	return &sub{
		owner: owner,
		key:   handlerKey(owner, h),
		h:     h,
	}
}

func (s *sub) is(owner any, key uintptr) bool {
	return s.owner == owner && s.key == key
}

// handlerKey 同一方法对不同接收者的方法值代码指针相同,所以有owner时用代码指针,
// 没有owner时用闭包对象的地址
func handlerKey(owner any, h Handler) uintptr {
	if owner != nil {
		return reflect.ValueOf(h).Pointer()
	}
	return uintptr(*(*unsafe.Pointer)(unsafe.Pointer(&h)))
}

func isComparable(owner any) bool {
	return owner == nil || reflect.TypeOf(owner).Comparable()
}
