package util

import (
	"regexp"
	"runtime"
	"strconv"
)

// 框架保留60001起的错误码,业务码应小于60000
const (
	EcNil TErrCode = iota + 60001
	EcRecover
	EcWrongType
	EcBusy
	EcTimeout
	EcClosed
	EcOpened
	EcEmpty
	EcExist
	EcNotExist
	EcMarshallErr
	EcUnmarshallErr
	EcIllegalOp
	EcParamsErr
	EcParseErr
	EcIo
	EcTooMuch
	EcConnectErr
	EcServiceErr
	EcDbErr
	EcRedisErr
	EcEtcdErr
)

var _ErrCodeNames = [...]string{
	"object_nil", "recover", "wrong_type", "busy", "timeout", "closed",
	"opened", "empty", "exist", "not_exist", "marshall_error",
	"unmarshall_error", "illegal_operation", "args_error", "parse_error",
	"io_error", "too_much", "connect_error", "service_error",
	"database_error", "redis_wrong", "etcd_wrong",
}

// ErrCodeToStr 非框架错误码返回数字
func ErrCodeToStr(ec TErrCode) string {
	if i := int(ec) - int(EcNil); i >= 0 && i < len(_ErrCodeNames) {
		return _ErrCodeNames[i]
	}
	return strconv.FormatInt(int64(ec), 10)
}

func WrapErr(code TErrCode, e error) *Err {
	err := &Err{code: code, stack: GetStack(3)}
	if e != nil {
		err.params = M{"error": e.Error()}
	}
	return err
}

func NewErr(code TErrCode, params M) *Err {
	return &Err{code: code, stack: GetStack(3), params: params}
}

func NewErrWithStack(code TErrCode, stack []byte, params M) *Err {
	return &Err{code: code, stack: stack, params: params}
}

// Err 带错误码、调用栈与参数的错误
type Err struct {
	code   TErrCode
	stack  []byte
	params M
}

func (e *Err) Code() TErrCode {
	return e.code
}

func (e *Err) Error() string {
	if s, ok := e.params["error"].(string); ok {
		return ErrCodeToStr(e.code) + ": " + s
	}
	return ErrCodeToStr(e.code)
}

func (e *Err) String() string {
	return ErrCodeToStr(e.code)
}

func (e *Err) Params() M {
	return e.params
}

func (e *Err) Stack() []byte {
	return e.stack
}

func (e *Err) AddParam(k string, v any) {
	if e.params == nil {
		e.params = M{}
	}
	e.params[k] = v
}

func (e *Err) AddParams(params M) {
	for k, v := range params {
		e.AddParam(k, v)
	}
}

func (e *Err) GetParam(k string) (any, bool) {
	v, ok := e.params[k]
	return v, ok
}

// IsErrCode 判断err是否为指定错误码
func IsErrCode(err *Err, code TErrCode) bool {
	return err != nil && err.code == code
}

const _StackDepth = 8

// GetStack 从skip层开始最多取8帧,文件路径经LogTrim缩短
func GetStack(skip int) []byte {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])

	var buffer ByteBuffer
	buffer.InitCap(256)
	for i := 0; i < _StackDepth; i++ {
		frame, more := frames.Next()
		buffer.WUint8('\n')
		buffer.WStringNoLen(frame.Function)
		buffer.WStringNoLen("\n\t")
		buffer.WStringNoLen(LogTrim(frame.File))
		buffer.WUint8(':')
		buffer.WStringNoLen(strconv.Itoa(frame.Line))
		if !more {
			break
		}
	}
	return buffer.CopyAll()
}

// 去掉模块路径或GOROOT之前的部分
var _TrimReg = regexp.MustCompile(`(\/.+\.(com)|(org))|(\/.+go\d{1}\.\d{1,2}.\d{1,2}|/src)`)

func LogTrim(file string) string {
	if s := _TrimReg.FindStringIndex(file); len(s) > 0 {
		return ".." + file[s[1]:]
	}
	return file
}
