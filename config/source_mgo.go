package config

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/15mga/hive/util"
)

// NewMongoSource 文档形如{_id: name, <field>: binary}
func NewMongoSource(coll *mongo.Collection, field string) *MongoSource {
	if field == "" {
		field = "data"
	}
	return &MongoSource{
		coll:  coll,
		field: field,
	}
}

type MongoSource struct {
	coll  *mongo.Collection
	field string
}

func (s *MongoSource) Get(ctx context.Context, name string) ([]byte, *util.Err) {
	var doc bson.Raw
	e := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: name}}).Decode(&doc)
	if e != nil {
		if errors.Is(e, mongo.ErrNoDocuments) {
			return nil, notExist(name)
		}
		return nil, util.WrapErr(util.EcDbErr, e)
	}
	val, e := doc.LookupErr(s.field)
	if e != nil {
		return nil, util.NewErr(util.EcNotExist, util.M{
			"config": name,
			"field":  s.field,
		})
	}
	if _, data, ok := val.BinaryOK(); ok {
		return data, nil
	}
	if str, ok := val.StringValueOK(); ok {
		return []byte(str), nil
	}
	if sub, ok := val.DocumentOK(); ok {
		return sub, nil
	}
	return nil, util.NewErr(util.EcWrongType, util.M{
		"config": name,
		"type":   val.Type.String(),
	})
}

// Put 写入或替换,用于发布配置
func (s *MongoSource) Put(ctx context.Context, name string, data []byte) *util.Err {
	_, e := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: name}},
		bson.D{{Key: "$set", Value: bson.D{{Key: s.field, Value: data}}}},
		options.Update().SetUpsert(true),
	)
	if e != nil {
		return util.WrapErr(util.EcDbErr, e)
	}
	return nil
}
