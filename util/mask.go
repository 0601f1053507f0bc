package util

// Bits 可用作位掩码的整数类型
type Bits interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Mask 合并所有位
func Mask[T Bits](items ...T) T {
	var v T
	for _, item := range items {
		v |= item
	}
	return v
}

// HasBits item中任一位在mask中
func HasBits[T Bits](item, mask T) bool {
	return item&mask != 0
}
