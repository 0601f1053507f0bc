package log

import (
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/15mga/hive"
	"github.com/15mga/hive/util"
)

const (
	ColorRed      = "\033[31m"
	ColorGreen    = "\033[32m"
	ColorYellow   = "\033[33m"
	ColorPurple   = "\033[35m"
	ColorCyan     = "\033[36m"
	ColorWhite    = "\033[37m"
	ColorHiRed    = "\033[91m"
	ColorHiGreen  = "\033[92m"
	ColorHiYellow = "\033[93m"
	ColorHiPurple = "\033[95m"
	ColorHiWhite  = "\033[97m"
	ColorReset    = "\033[0m"
)

type head struct {
	sign       string
	logColor   string
	traceColor string
}

var _Heads = map[hive.TLevel]head{
	hive.TDebug: {"D", ColorHiWhite, ColorWhite},
	hive.TInfo:  {"I", ColorHiGreen, ColorGreen},
	hive.TWarn:  {"W", ColorHiYellow, ColorYellow},
	hive.TError: {"E", ColorHiRed, ColorRed},
	hive.TFatal: {"F", ColorHiPurple, ColorPurple},
}

type (
	stdOption struct {
		logLvl, traceLvl hive.TLevel
		timeLayout       string
		color            bool
		writer           io.Writer
	}
	StdOption func(opt *stdOption)
)

func StdLogLvl(levels ...hive.TLevel) StdOption {
	return func(opt *stdOption) {
		opt.logLvl = hive.LvlToMask(levels...)
	}
}

func StdTraceLvl(levels ...hive.TLevel) StdOption {
	return func(opt *stdOption) {
		opt.traceLvl = hive.LvlToMask(levels...)
	}
}

func StdLogStrLvl(levels ...string) StdOption {
	return func(opt *stdOption) {
		opt.logLvl = hive.StrLvlToMask(levels...)
	}
}

func StdTimeLayout(layout string) StdOption {
	return func(opt *stdOption) {
		opt.timeLayout = layout
	}
}

func StdWriter(writer io.Writer) StdOption {
	return func(opt *stdOption) {
		opt.writer = writer
	}
}

func StdColor(color bool) StdOption {
	return func(opt *stdOption) {
		opt.color = color
	}
}

// StdFile 按天数与大小滚动的日志文件,关闭颜色
func StdFile(file string, maxSizeMb, maxAgeDays int) StdOption {
	return func(opt *stdOption) {
		opt.color = false
		opt.writer = &lumberjack.Logger{
			Filename: file,
			MaxSize:  maxSizeMb,
			MaxAge:   maxAgeDays,
			Compress: true,
		}
	}
}

func NewStd(opts ...StdOption) *StdLogger {
	opt := &stdOption{
		logLvl:     hive.LvlToMask(hive.TestLevels...),
		traceLvl:   hive.LvlToMask(hive.TestLevels...),
		timeLayout: hive.DefTimeFormatter,
		color:      true,
		writer:     os.Stdout,
	}
	for _, o := range opts {
		o(opt)
	}
	l := &StdLogger{
		option:     opt,
		logHeads:   make(map[hive.TLevel]string, len(_Heads)),
		traceHeads: make(map[hive.TLevel]string, len(_Heads)),
		tail:       "\n",
	}
	for lvl, h := range _Heads {
		lh, th := "["+h.sign+"]", "[T"+h.sign+"]"
		if opt.color {
			lh, th = h.logColor+lh, h.traceColor+th
		}
		l.logHeads[lvl] = lh
		l.traceHeads[lvl] = th
	}
	l.traceSign = "[TC]"
	if opt.color {
		l.traceSign = ColorCyan + l.traceSign
		l.tail = ColorReset + l.tail
	}
	return l
}

// StdLogger 控制台或文件输出
type StdLogger struct {
	option     *stdOption
	logHeads   map[hive.TLevel]string
	traceHeads map[hive.TLevel]string
	traceSign  string
	tail       string
}

func (l *StdLogger) timestamp() string {
	return time.Now().Format(l.option.timeLayout)
}

func (l *StdLogger) write(buffer *util.ByteBuffer, caller string, stack []byte, params util.M) {
	buffer.WStringNoLen(l.tail)
	if len(params) > 0 {
		ps, _ := util.JsonMarshal(params)
		_, _ = buffer.Write(ps)
		buffer.WStringNoLen("\n")
	}
	buffer.WStringNoLen(caller)
	if stack != nil {
		_, _ = buffer.Write(stack)
	}
	buffer.WStringNoLen("\n")
	_, _ = l.option.writer.Write(buffer.All())
	buffer.Dispose()
}

func (l *StdLogger) Log(level hive.TLevel, msg, caller string, stack []byte, params util.M) {
	if !hive.HasLvl(level, l.option.logLvl) {
		return
	}
	var buffer util.ByteBuffer
	if stack == nil {
		buffer.InitCap(512)
	} else {
		buffer.InitCap(1024 + len(stack))
	}
	buffer.WStringNoLen(l.logHeads[level])
	buffer.WStringNoLen(l.timestamp())
	if msg != "" {
		buffer.WStringNoLen(" ")
		buffer.WStringNoLen(msg)
	}
	l.write(&buffer, caller, stack, params)
}

func (l *StdLogger) Trace(pid, tid int64, caller string, params util.M) {
	var buffer util.ByteBuffer
	buffer.InitCap(512)
	buffer.WStringNoLen(l.traceSign)
	buffer.WStringNoLen(l.timestamp())
	buffer.WStringNoLen(" pid:")
	buffer.WStringNoLen(strconv.FormatInt(pid, 10))
	buffer.WStringNoLen(" tid:")
	buffer.WStringNoLen(strconv.FormatInt(tid, 10))
	l.write(&buffer, caller, nil, params)
}

func (l *StdLogger) Span(level hive.TLevel, tid int64, msg, caller string, stack []byte, params util.M) {
	if !hive.HasLvl(level, l.option.traceLvl) {
		return
	}
	var buffer util.ByteBuffer
	buffer.InitCap(1024 + len(stack))
	buffer.WStringNoLen(l.traceHeads[level])
	buffer.WStringNoLen(l.timestamp())
	buffer.WStringNoLen(" tid:")
	buffer.WStringNoLen(strconv.FormatInt(tid, 10))
	if msg != "" {
		buffer.WStringNoLen(" ")
		buffer.WStringNoLen(msg)
	}
	l.write(&buffer, caller, stack, params)
}
