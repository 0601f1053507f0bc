package mock

import (
	"sync"

	"github.com/15mga/hive"
	"github.com/15mga/hive/util"
)

type Entry struct {
	Level  hive.TLevel
	Msg    string
	Caller string
	Stack  []byte
	Params util.M
}

// Logger 记录全部日志,测试用
type Logger struct {
	mtx     sync.Mutex
	entries []Entry
}

// UseLogger 替换hive的全部日志输出
func UseLogger() *Logger {
	l := &Logger{}
	hive.SetLogger(l)
	return l
}

func (l *Logger) Log(level hive.TLevel, msg, caller string, stack []byte, params util.M) {
	l.mtx.Lock()
	l.entries = append(l.entries, Entry{
		Level:  level,
		Msg:    msg,
		Caller: caller,
		Stack:  stack,
		Params: params.Copy(),
	})
	l.mtx.Unlock()
}

func (l *Logger) Trace(pid, tid int64, caller string, params util.M) {}

func (l *Logger) Span(level hive.TLevel, tid int64, msg, caller string, stack []byte, params util.M) {
	l.Log(level, msg, caller, stack, params)
}

func (l *Logger) Entries() []Entry {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	slc := make([]Entry, len(l.entries))
	copy(slc, l.entries)
	return slc
}

// Count 指定级别的条数
func (l *Logger) Count(level hive.TLevel) int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

func (l *Logger) Reset() {
	l.mtx.Lock()
	l.entries = nil
	l.mtx.Unlock()
}
