package worker

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/15mga/hive"
	"github.com/15mga/hive/util"
)

// Go 在ants协程池中执行
func Go(fn util.FnAnySlc, params ...any) {
	e := ants.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				hive.Error(util.Recover(r, nil))
			}
		}()
		fn(params)
	})
	if e != nil {
		hive.Error3(util.EcBusy, e)
	}
}

// All 并发执行全部fn并等待,返回下标最小的错误
func All(ctx context.Context, fns ...util.ToErr) *util.Err {
	if len(fns) == 0 {
		return nil
	}
	errs := make([]*util.Err, len(fns))
	var wg sync.WaitGroup
	wg.Add(len(fns))
	for i, fn := range fns {
		idx, f := i, fn
		e := ants.Submit(func() {
			defer wg.Done()
			var err *util.Err
			if pe := util.SafeCall(func() {
				err = f()
			}, util.M{"index": idx}); pe != nil {
				err = pe
			}
			errs[idx] = err
		})
		if e != nil {
			errs[idx] = util.WrapErr(util.EcBusy, e)
			wg.Done()
		}
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return util.WrapErr(util.EcTimeout, ctx.Err())
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
