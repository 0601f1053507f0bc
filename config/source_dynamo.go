package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/smithy-go/logging"

	"github.com/15mga/hive"
	"github.com/15mga/hive/util"
)

// DynamoGetter *dynamodb.Client实现了它
type DynamoGetter interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// NewDynamoSource 表的主键为keyAttr,数据在dataAttr
func NewDynamoSource(client DynamoGetter, table, keyAttr, dataAttr string) *DynamoSource {
	return &DynamoSource{
		client:   client,
		table:    table,
		keyAttr:  keyAttr,
		dataAttr: dataAttr,
	}
}

type DynamoSource struct {
	client   DynamoGetter
	table    string
	keyAttr  string
	dataAttr string
}

func (s *DynamoSource) Get(ctx context.Context, name string) ([]byte, *util.Err) {
	key, e := attributevalue.MarshalMap(map[string]string{
		s.keyAttr: name,
	})
	if e != nil {
		return nil, util.WrapErr(util.EcMarshallErr, e)
	}
	expr, e := expression.NewBuilder().
		WithProjection(expression.NamesList(expression.Name(s.dataAttr))).
		Build()
	if e != nil {
		return nil, util.WrapErr(util.EcParamsErr, e)
	}
	res, e := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(s.table),
		Key:                      key,
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	})
	if e != nil {
		return nil, util.WrapErr(util.EcDbErr, e)
	}
	av, ok := res.Item[s.dataAttr]
	if !ok {
		return nil, notExist(name)
	}
	var data []byte
	e = attributevalue.Unmarshal(av, &data)
	if e != nil {
		return nil, util.WrapErr(util.EcUnmarshallErr, e)
	}
	return data, nil
}

// ConnDynamo endpoint为空时使用aws默认地址
func ConnDynamo(ctx context.Context, region, endpoint string) (*dynamodb.Client, *util.Err) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithLogger(dynamoLogger{}),
	}
	if endpoint != "" {
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...any) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint}, nil
			})))
	}
	cfg, e := awsconfig.LoadDefaultConfig(ctx, opts...)
	if e != nil {
		return nil, util.WrapErr(util.EcParamsErr, e)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

type dynamoLogger struct{}

func (l dynamoLogger) Logf(classification logging.Classification, format string, v ...any) {
	switch classification {
	case logging.Debug:
		hive.Debug(fmt.Sprintf(format, v...), nil)
	case logging.Warn:
		hive.Warn(util.NewErr(util.EcDbErr, util.M{
			"error": fmt.Sprintf(format, v...),
		}))
	}
}
