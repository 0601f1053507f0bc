package ds

// NewKSet key由getKey从值中取得
func NewKSet[KT comparable, VT any](capacity int, getKey func(VT) KT) *KSet[KT, VT] {
	return &KSet[KT, VT]{
		items:  make([]VT, 0, capacity),
		idx:    make(map[KT]int, capacity),
		getKey: getKey,
	}
}

// KSet 按首次写入顺序保存的键值集合,只增不删
type KSet[KT comparable, VT any] struct {
	items  []VT
	idx    map[KT]int
	getKey func(VT) KT
}

func (s *KSet[KT, VT]) Count() int {
	return len(s.items)
}

// Set 已存在时原位替换并返回旧值,顺序不变
func (s *KSet[KT, VT]) Set(item VT) (old VT, replaced bool) {
	key := s.getKey(item)
	if i, ok := s.idx[key]; ok {
		old, s.items[i] = s.items[i], item
		return old, true
	}
	s.idx[key] = len(s.items)
	s.items = append(s.items, item)
	return
}

func (s *KSet[KT, VT]) Get(key KT) (item VT, ok bool) {
	i, ok := s.idx[key]
	if !ok {
		return
	}
	return s.items[i], true
}

// Values 返回内部切片,调用方不要修改
func (s *KSet[KT, VT]) Values() []VT {
	return s.items
}
