package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/15mga/hive/singleton"
	"github.com/15mga/hive/util"
)

type FlagConf struct {
	singleton.Singleton
	Flags *structpb.Struct
}

func (c *FlagConf) ProtoTarget() proto.Message {
	if c.Flags == nil {
		c.Flags = &structpb.Struct{}
	}
	return c.Flags
}

func TestProtoCodec(t *testing.T) {
	src, e := structpb.NewStruct(map[string]any{
		"pvp":  true,
		"name": "s1",
	})
	require.NoError(t, e)
	data, err := Proto.Marshal(src)
	require.Nil(t, err)

	c := &FlagConf{}
	require.Nil(t, Proto.Unmarshal(data, c))
	assert.True(t, c.Flags.Fields["pvp"].GetBoolValue())
	assert.Equal(t, "s1", c.Flags.Fields["name"].GetStringValue())

	err = Proto.Unmarshal(data, &ItemConf{})
	assert.True(t, util.IsErrCode(err, util.EcWrongType))
}

func TestBsonCodec(t *testing.T) {
	data, err := Bson.Marshal(&LevelConf{Max: 9})
	require.Nil(t, err)
	c := &LevelConf{}
	require.Nil(t, Bson.Unmarshal(data, c))
	assert.Equal(t, 9, c.Max)

	err = Bson.Unmarshal([]byte{1, 2, 3}, c)
	assert.True(t, util.IsErrCode(err, util.EcUnmarshallErr))
}

func TestCodecByName(t *testing.T) {
	for _, name := range []string{"bson", "json", "proto"} {
		c, ok := CodecByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}
	_, ok := CodecByName("xml")
	assert.False(t, ok)
}
