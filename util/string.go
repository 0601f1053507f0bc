package util

import (
	"strings"
	"unsafe"
)

func BytesToStr(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

// LastSegment 返回sep最后一次出现之后的部分
func LastSegment(str, sep string) string {
	idx := strings.LastIndex(str, sep)
	if idx < 0 {
		return str
	}
	return str[idx+len(sep):]
}
