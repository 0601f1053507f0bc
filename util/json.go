package util

import jsoniter "github.com/json-iterator/go"

// 数字按json.Number解出,避免int64在日志参数和配置里丢精度
var _Json = jsoniter.Config{
	UseNumber:   true,
	EscapeHTML:  true,
	SortMapKeys: true,
}.Froze()

func JsonMarshal(o any) ([]byte, *Err) {
	bytes, e := _Json.Marshal(o)
	if e != nil {
		return nil, WrapErr(EcMarshallErr, e)
	}
	return bytes, nil
}

func JsonUnmarshal(bytes []byte, o any) *Err {
	if e := _Json.Unmarshal(bytes, o); e != nil {
		return WrapErr(EcUnmarshallErr, e)
	}
	return nil
}
