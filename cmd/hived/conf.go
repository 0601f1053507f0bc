package main

import (
	"time"

	"github.com/15mga/hive/loader"
)

type Conf struct {
	Name    string
	NodeId  int64
	Tick    time.Duration
	Profile time.Duration
	Metrics string
	Log     LogConf
	Config  SourceConf
}

type LogConf struct {
	// Type std zap file mgo,可以逗号分隔同时使用
	Type    []string
	Level   loader.LogLevels
	Color   bool
	File    string
	MaxSize int
	MaxAge  int
	Mongo   string
	Db      string
	Ttl     int32
}

type SourceConf struct {
	// Type local http mongo redis etcd dynamo
	Type     string
	Codec    string
	Dir      string
	Ext      string
	Url      string
	Token    string
	Mongo    string
	Db       string
	Coll     string
	Field    string
	Redis    string
	Password string
	Prefix   string
	Etcd     []string
	Region   string
	Endpoint string
	Table    string
	Watch    bool
}

func defConf() *Conf {
	return &Conf{
		Name:    "hived",
		NodeId:  1,
		Tick:    time.Millisecond * 33,
		Metrics: ":9090",
		Log: LogConf{
			Type:    []string{"std"},
			Color:   true,
			MaxSize: 128,
			MaxAge:  7,
			Db:      "log",
			Ttl:     7 * 24 * 3600,
		},
		Config: SourceConf{
			Type:  "local",
			Codec: "json",
			Dir:   "data",
			Ext:   ".json",
			Field: "data",
		},
	}
}
