package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/15mga/hive"
	"github.com/15mga/hive/util"
)

// NewZapConfig production为false时使用带颜色的开发配置
func NewZapConfig(production bool, level hive.TLevel) zap.Config {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(hive.DefTimeFormatter)
		cfg.EncoderConfig.ConsoleSeparator = "  "
	}
	// caller与stack由hive提供
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(lvlToZap(level))
	return cfg
}

func NewZap(cfg zap.Config) (*ZapLogger, *util.Err) {
	logger, e := cfg.Build()
	if e != nil {
		return nil, util.WrapErr(util.EcParamsErr, e)
	}
	return WrapZap(logger), nil
}

func WrapZap(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger}
}

// ZapLogger 把hive日志转到zap
type ZapLogger struct {
	logger *zap.Logger
}

func (l *ZapLogger) Zap() *zap.Logger {
	return l.logger
}

func (l *ZapLogger) Sync() {
	_ = l.logger.Sync()
}

func (l *ZapLogger) Log(level hive.TLevel, msg, caller string, stack []byte, params util.M) {
	ce := l.logger.Check(lvlToZap(level), msg)
	if ce == nil {
		return
	}
	ce.Write(fields(caller, stack, params)...)
}

func (l *ZapLogger) Trace(pid, tid int64, caller string, params util.M) {
	ce := l.logger.Check(zapcore.InfoLevel, "trace")
	if ce == nil {
		return
	}
	fs := fields(caller, nil, params)
	fs = append(fs, zap.Int64("pid", pid), zap.Int64("tid", tid))
	ce.Write(fs...)
}

func (l *ZapLogger) Span(level hive.TLevel, tid int64, msg, caller string, stack []byte, params util.M) {
	ce := l.logger.Check(lvlToZap(level), msg)
	if ce == nil {
		return
	}
	fs := fields(caller, stack, params)
	fs = append(fs, zap.Int64("tid", tid))
	ce.Write(fs...)
}

func fields(caller string, stack []byte, params util.M) []zap.Field {
	fs := make([]zap.Field, 0, len(params)+4)
	fs = append(fs, zap.String("caller", caller))
	if len(stack) > 0 {
		fs = append(fs, zap.ByteString("stack", stack))
	}
	for k, v := range params {
		fs = append(fs, zap.Any(k, v))
	}
	return fs
}

func lvlToZap(level hive.TLevel) zapcore.Level {
	switch level {
	case hive.TDebug:
		return zapcore.DebugLevel
	case hive.TInfo:
		return zapcore.InfoLevel
	case hive.TWarn:
		return zapcore.WarnLevel
	case hive.TError:
		return zapcore.ErrorLevel
	case hive.TFatal:
		// 退出由hive.Fatal负责,zap只记录
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
