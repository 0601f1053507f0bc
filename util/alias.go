package util

type (
	TErrCode = uint16
)

type (
	Fn           func()
	FnAnySlc     func([]any)
	FnErr        func(*Err)
	ToErr        func() *Err
	FnStr        func(string)
	StrToStr2Err func(string) (string, string, *Err)
)

func Default[T any]() (v T) {
	return
}

func (f Fn) Invoke() {
	if f == nil {
		return
	}
	f()
}

func (f FnErr) Invoke(err *Err) {
	if f == nil {
		return
	}
	f(err)
}
