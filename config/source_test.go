package config

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/15mga/hive/util"
)

func TestLocalSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ItemConf.json"), []byte(`{"items":{}}`), 0644))

	src := NewLocalSource(dir, ".json")
	data, err := src.Get(context.Background(), "ItemConf")
	require.Nil(t, err)
	assert.Equal(t, `{"items":{}}`, string(data))

	_, err = src.Get(context.Background(), "LevelConf")
	assert.True(t, util.IsErrCode(err, util.EcNotExist))
}

func TestMapSource(t *testing.T) {
	src := NewMapSource()
	src.Set("a", []byte{1, 2})
	data, err := src.Get(context.Background(), "a")
	require.Nil(t, err)
	assert.Equal(t, []byte{1, 2}, data)
	_, err = src.Get(context.Background(), "b")
	assert.True(t, util.IsErrCode(err, util.EcNotExist))
}

func TestHttpSource(t *testing.T) {
	ln := fasthttputil.NewInmemoryListener()
	defer ln.Close()
	go func() {
		_ = fasthttp.Serve(ln, func(ctx *fasthttp.RequestCtx) {
			if string(ctx.Request.Header.Peek("X-Token")) != "t1" {
				ctx.SetStatusCode(fasthttp.StatusForbidden)
				return
			}
			switch string(ctx.Path()) {
			case "/conf/ItemConf.json":
				ctx.SetBody([]byte(`{"items":{"axe":4}}`))
			case "/conf/Broken.json":
				ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			default:
				ctx.SetStatusCode(fasthttp.StatusNotFound)
			}
		})
	}()

	client := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) {
			return ln.Dial()
		},
	}
	src := NewHttpSource("http://conf.local/conf/", ".json",
		HttpClient(client), HttpHeader("X-Token", "t1"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	data, err := src.Get(ctx, "ItemConf")
	require.Nil(t, err)
	assert.Equal(t, `{"items":{"axe":4}}`, string(data))

	_, err = src.Get(ctx, "LevelConf")
	assert.True(t, util.IsErrCode(err, util.EcNotExist))

	_, err = src.Get(context.Background(), "Broken")
	assert.True(t, util.IsErrCode(err, util.EcServiceErr))
}

type fakeDynamo struct {
	items map[string][]byte
	input *dynamodb.GetItemInput
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.input = params
	key := params.Key["name"].(*types.AttributeValueMemberS).Value
	data, ok := f.items[key]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{
		Item: map[string]types.AttributeValue{
			"data": &types.AttributeValueMemberB{Value: data},
		},
	}, nil
}

func TestDynamoSource(t *testing.T) {
	fake := &fakeDynamo{
		items: map[string][]byte{
			"ItemConf": []byte("blob"),
		},
	}
	src := NewDynamoSource(fake, "configs", "name", "data")
	data, err := src.Get(context.Background(), "ItemConf")
	require.Nil(t, err)
	assert.Equal(t, []byte("blob"), data)
	assert.Equal(t, "configs", *fake.input.TableName)
	require.NotNil(t, fake.input.ProjectionExpression)
	assert.Contains(t, fake.input.ExpressionAttributeNames, *fake.input.ProjectionExpression)

	_, err = src.Get(context.Background(), "LevelConf")
	assert.True(t, util.IsErrCode(err, util.EcNotExist))
}
