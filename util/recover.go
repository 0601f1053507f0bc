package util

import "fmt"

// Recover 在defer中调用,将panic转为带调用栈的错误
func Recover(r any, params M) *Err {
	if r == nil {
		return nil
	}
	if params == nil {
		params = M{}
	}
	params["error"] = fmt.Sprint(r)
	return NewErrWithStack(EcRecover, GetStack(4), params)
}

// SafeCall 执行fn,panic时返回EcRecover错误
func SafeCall(fn Fn, params M) (err *Err) {
	defer func() {
		if r := recover(); r != nil {
			err = Recover(r, params)
		}
	}()
	fn()
	return
}
