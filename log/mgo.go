package log

import (
	"context"
	"os"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/15mga/hive"
	"github.com/15mga/hive/util"
	"github.com/15mga/hive/worker"
)

const (
	mgoLog   = "log"
	mgoTrace = "trace"
	mgoSpan  = "span"
)

type (
	mgoOption struct {
		logLvl, traceLvl hive.TLevel
		db               string
		ttl              int32
		flushDur         time.Duration
		clientOpts       *options.ClientOptions
	}
	MgoOption func(opt *mgoOption)
)

func MgoLogLvl(levels ...string) MgoOption {
	return func(opt *mgoOption) {
		opt.logLvl = hive.StrLvlToMask(levels...)
	}
}

func MgoTraceLvl(levels ...string) MgoOption {
	return func(opt *mgoOption) {
		opt.traceLvl = hive.StrLvlToMask(levels...)
	}
}

func MgoDb(db string) MgoOption {
	return func(opt *mgoOption) {
		opt.db = db
	}
}

// MgoTtl 日志保留秒数
func MgoTtl(ttl int32) MgoOption {
	return func(opt *mgoOption) {
		opt.ttl = ttl
	}
}

func MgoFlushDur(dur time.Duration) MgoOption {
	return func(opt *mgoOption) {
		opt.flushDur = dur
	}
}

func MgoUri(uri string) MgoOption {
	return func(opt *mgoOption) {
		opt.clientOpts = options.Client().ApplyURI(uri)
	}
}

// NewMgo 日志批量写入mongo,退出前会刷新缓冲
func NewMgo(ctx context.Context, opts ...MgoOption) (*MgoLogger, *util.Err) {
	opt := &mgoOption{
		logLvl:   hive.LvlToMask(hive.ProdLevels...),
		traceLvl: hive.LvlToMask(hive.ProdLevels...),
		db:       "log",
		ttl:      3600 * 24 * 7,
		flushDur: time.Second * 5,
	}
	for _, o := range opts {
		o(opt)
	}
	if opt.clientOpts == nil {
		opt.clientOpts = options.Client().ApplyURI("mongodb://localhost:27017")
	}
	client, e := mongo.Connect(ctx, opt.clientOpts)
	if e != nil {
		return nil, util.WrapErr(util.EcConnectErr, e)
	}
	e = client.Ping(ctx, readpref.Primary())
	if e != nil {
		return nil, util.WrapErr(util.EcConnectErr, e)
	}
	l := &MgoLogger{
		option: opt,
		client: client,
		db:     client.Database(opt.db),
		stopCh: make(chan chan struct{}, 1),
	}
	names, e := l.db.ListCollectionNames(ctx, bson.D{})
	if e != nil {
		return nil, util.WrapErr(util.EcDbErr, e)
	}
	exist := make(map[string]struct{}, len(names))
	for _, name := range names {
		exist[name] = struct{}{}
	}

	coll, err := l.ensureColl(ctx, exist, mgoLog, "lvl")
	if err != nil {
		return nil, err
	}
	l.logBuffer = newMgoBuffer(16, coll)
	coll, err = l.ensureColl(ctx, exist, mgoTrace, "pid", "tid")
	if err != nil {
		return nil, err
	}
	l.traceBuffer = newMgoBuffer(32, coll)
	coll, err = l.ensureColl(ctx, exist, mgoSpan, "tid", "lvl")
	if err != nil {
		return nil, err
	}
	l.spanBuffer = newMgoBuffer(128, coll)

	l.worker = worker.NewWorker(l.process)
	l.worker.Start()
	go l.loop()
	hive.BeforeExitFn("mgo log", l.Close)
	return l, nil
}

type MgoLogger struct {
	option      *mgoOption
	client      *mongo.Client
	db          *mongo.Database
	worker      *worker.Worker[any]
	logBuffer   *mgoBuffer
	traceBuffer *mgoBuffer
	spanBuffer  *mgoBuffer
	stopCh      chan chan struct{}
	closeOnce   sync.Once
}

func (l *MgoLogger) ensureColl(ctx context.Context, exist map[string]struct{}, name string, keys ...string) (*mongo.Collection, *util.Err) {
	if _, ok := exist[name]; !ok {
		e := l.db.CreateCollection(ctx, name)
		if e != nil {
			return nil, util.WrapErr(util.EcDbErr, e)
		}
	}
	coll := l.db.Collection(name)
	idx := make([]mongo.IndexModel, 0, len(keys)+1)
	idx = append(idx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ts", Value: -1}},
		Options: options.Index().SetExpireAfterSeconds(l.option.ttl),
	})
	for _, key := range keys {
		idx = append(idx, mongo.IndexModel{
			Keys: bson.D{{Key: key, Value: 1}},
		})
	}
	_, e := coll.Indexes().CreateMany(ctx, idx)
	if e != nil {
		return nil, util.WrapErr(util.EcDbErr, e)
	}
	return coll, nil
}

func (l *MgoLogger) loop() {
	ticker := time.NewTicker(l.option.flushDur)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.worker.Push(struct{}{})
		case ch := <-l.stopCh:
			l.worker.Push(ch)
			return
		}
	}
}

// Close 刷新缓冲后断开连接
func (l *MgoLogger) Close() {
	l.closeOnce.Do(func() {
		ch := make(chan struct{})
		l.stopCh <- ch
		<-ch
		l.worker.Dispose()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		_ = l.client.Disconnect(ctx)
	})
}

func (l *MgoLogger) Log(level hive.TLevel, msg, caller string, stack []byte, params util.M) {
	if !hive.HasLvl(level, l.option.logLvl) {
		return
	}
	l.worker.Push(logDoc{
		Timestamp: time.Now(),
		Level:     hive.LevelToStr(level),
		Message:   msg,
		Stack:     string(stack),
		Caller:    caller,
		Params:    params,
	})
}

func (l *MgoLogger) Trace(pid, tid int64, caller string, params util.M) {
	l.worker.Push(traceDoc{
		Timestamp: time.Now(),
		Pid:       pid,
		Tid:       tid,
		Caller:    caller,
		Params:    params,
	})
}

func (l *MgoLogger) Span(level hive.TLevel, tid int64, msg, caller string, stack []byte, params util.M) {
	if !hive.HasLvl(level, l.option.traceLvl) {
		return
	}
	l.worker.Push(spanDoc{
		Timestamp: time.Now(),
		Level:     hive.LevelToStr(level),
		Tid:       tid,
		Message:   msg,
		Stack:     string(stack),
		Caller:    caller,
		Params:    params,
	})
}

func (l *MgoLogger) process(data any) {
	switch d := data.(type) {
	case logDoc:
		l.logBuffer.push(d)
	case traceDoc:
		l.traceBuffer.push(d)
	case spanDoc:
		l.spanBuffer.push(d)
	case struct{}:
		l.flush()
	case chan struct{}:
		l.flush()
		close(d)
	}
}

func (l *MgoLogger) flush() {
	l.logBuffer.flush()
	l.traceBuffer.flush()
	l.spanBuffer.flush()
}

func newMgoBuffer(cap int, coll *mongo.Collection) *mgoBuffer {
	return &mgoBuffer{
		buffer: make([]any, 0, cap),
		coll:   coll,
	}
}

type mgoBuffer struct {
	buffer []any
	coll   *mongo.Collection
}

func (b *mgoBuffer) push(m any) {
	b.buffer = append(b.buffer, m)
	if len(b.buffer) < cap(b.buffer) {
		return
	}
	b.flush()
}

func (b *mgoBuffer) flush() {
	if len(b.buffer) == 0 {
		return
	}
	_, e := b.coll.InsertMany(context.Background(), b.buffer)
	if e != nil {
		// 不能再走hive日志,避免递归
		_, _ = os.Stderr.WriteString(e.Error() + "\n")
	}
	b.buffer = b.buffer[:0]
}

type logDoc struct {
	Timestamp time.Time `bson:"ts"`
	Level     string    `bson:"lvl"`
	Message   string    `bson:"msg"`
	Stack     string    `bson:"stk,omitempty"`
	Caller    string    `bson:"cl"`
	Params    util.M    `bson:"p,omitempty"`
}

type traceDoc struct {
	Timestamp time.Time `bson:"ts"`
	Pid       int64     `bson:"pid"`
	Tid       int64     `bson:"tid"`
	Caller    string    `bson:"cl"`
	Params    util.M    `bson:"p,omitempty"`
}

type spanDoc struct {
	Timestamp time.Time `bson:"ts"`
	Level     string    `bson:"lvl"`
	Tid       int64     `bson:"tid"`
	Message   string    `bson:"msg"`
	Stack     string    `bson:"stk,omitempty"`
	Caller    string    `bson:"cl"`
	Params    util.M    `bson:"p,omitempty"`
}
