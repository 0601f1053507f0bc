package util

import (
	"sync"
)

const (
	_MinBytesCap = 16
	_MaxBytesCap = 1 << 16
)

var (
	_BytesPool = sync.Pool{
		New: func() any {
			return make([]byte, 0, 512)
		},
	}
)

func spawnBytes(c int) []byte {
	if c > _MaxBytesCap {
		return make([]byte, 0, c)
	}
	bytes := _BytesPool.Get().([]byte)
	if cap(bytes) < c {
		_BytesPool.Put(bytes[:0])
		return make([]byte, 0, c)
	}
	return bytes[:0]
}

func recycleBytes(bytes []byte) {
	c := cap(bytes)
	if c < _MinBytesCap || c > _MaxBytesCap {
		return
	}
	_BytesPool.Put(bytes[:0])
}

// ByteBuffer 可回收的字节缓冲,用于日志与调用栈拼接
type ByteBuffer struct {
	canRecycle bool
	bytes      []byte
}

func (b *ByteBuffer) InitCap(c int) {
	b.bytes = spawnBytes(c)
	b.canRecycle = true
}

func (b *ByteBuffer) InitBytes(bytes []byte) {
	b.bytes = bytes
	b.canRecycle = false
}

func (b *ByteBuffer) Reset() {
	b.bytes = b.bytes[:0]
}

func (b *ByteBuffer) Length() int {
	return len(b.bytes)
}

// All 返回底层字节,Dispose之后不可再使用
func (b *ByteBuffer) All() []byte {
	return b.bytes
}

// CopyAll 返回一份拷贝,并回收底层字节
func (b *ByteBuffer) CopyAll() []byte {
	dst := make([]byte, len(b.bytes))
	copy(dst, b.bytes)
	b.Dispose()
	return dst
}

func (b *ByteBuffer) Write(v []byte) (int, error) {
	b.bytes = append(b.bytes, v...)
	return len(v), nil
}

func (b *ByteBuffer) WUint8(v uint8) {
	b.bytes = append(b.bytes, v)
}

func (b *ByteBuffer) WStringNoLen(v string) {
	b.bytes = append(b.bytes, v...)
}

func (b *ByteBuffer) Dispose() {
	if !b.canRecycle {
		return
	}
	b.canRecycle = false
	recycleBytes(b.bytes)
	b.bytes = nil
}
