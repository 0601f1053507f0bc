package config

import (
	"go.mongodb.org/mongo-driver/bson"
	"google.golang.org/protobuf/proto"

	"github.com/15mga/hive/util"
)

// Codec 分类数据的编解码
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, *util.Err)
	Unmarshal(data []byte, v any) *util.Err
}

var (
	Bson  Codec = bsonCodec{}
	Json  Codec = jsonCodec{}
	Proto Codec = protoCodec{}
)

type bsonCodec struct{}

func (bsonCodec) Name() string {
	return "bson"
}

func (bsonCodec) Marshal(v any) ([]byte, *util.Err) {
	bytes, e := bson.Marshal(v)
	if e != nil {
		return nil, util.WrapErr(util.EcMarshallErr, e)
	}
	return bytes, nil
}

func (bsonCodec) Unmarshal(data []byte, v any) *util.Err {
	e := bson.Unmarshal(data, v)
	if e != nil {
		return util.WrapErr(util.EcUnmarshallErr, e)
	}
	return nil
}

type jsonCodec struct{}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Marshal(v any) ([]byte, *util.Err) {
	return util.JsonMarshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) *util.Err {
	return util.JsonUnmarshal(data, v)
}

// IProtoTarget 分类类型需要嵌入Singleton,无法直接作为proto消息,由它提供解码目标
type IProtoTarget interface {
	ProtoTarget() proto.Message
}

type protoCodec struct{}

func (protoCodec) Name() string {
	return "proto"
}

func protoMsg(v any) (proto.Message, *util.Err) {
	switch m := v.(type) {
	case IProtoTarget:
		return m.ProtoTarget(), nil
	case proto.Message:
		return m, nil
	default:
		return nil, util.NewErr(util.EcWrongType, util.M{
			"error": "not a proto target",
		})
	}
}

func (protoCodec) Marshal(v any) ([]byte, *util.Err) {
	msg, err := protoMsg(v)
	if err != nil {
		return nil, err
	}
	bytes, e := proto.Marshal(msg)
	if e != nil {
		return nil, util.WrapErr(util.EcMarshallErr, e)
	}
	return bytes, nil
}

func (protoCodec) Unmarshal(data []byte, v any) *util.Err {
	msg, err := protoMsg(v)
	if err != nil {
		return err
	}
	e := proto.Unmarshal(data, msg)
	if e != nil {
		return util.WrapErr(util.EcUnmarshallErr, e)
	}
	return nil
}

// CodecByName bson json proto,其余返回false
func CodecByName(name string) (Codec, bool) {
	switch name {
	case "bson":
		return Bson, true
	case "json":
		return Json, true
	case "proto":
		return Proto, true
	default:
		return nil, false
	}
}
