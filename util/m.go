package util

type (
	M  map[string]any
	MS map[string]string
)

func MGet[T any](m M, key string) (T, bool) {
	v, ok := m[key]
	if !ok {
		return Default[T](), false
	}
	v1, ok := v.(T)
	return v1, ok
}

// Copy 浅拷贝
func (m M) Copy() M {
	n := make(M, len(m))
	for k, v := range m {
		n[k] = v
	}
	return n
}
