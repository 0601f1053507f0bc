package hive

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/15mga/hive/util"
)

type waitInfo struct {
	name string
	fn   util.Fn
}

var (
	_WaitMtx       sync.Mutex
	_WaitExitInfos = make([]*waitInfo, 0, 1)
	_ExitTimeout   = time.Second * 60
	_Ctx, _Cancel  = context.WithCancel(context.Background())
)

// Ctx 进程级context,收到退出信号或调用Cancel后结束
func Ctx() context.Context {
	return _Ctx
}

func Cancel() {
	_Cancel()
}

// BeforeExitFn 退出前并发执行,WaitExit会等待全部完成或超时
func BeforeExitFn(name string, fn util.Fn) {
	_WaitMtx.Lock()
	_WaitExitInfos = append(_WaitExitInfos, &waitInfo{
		name: name,
		fn:   fn,
	})
	_WaitMtx.Unlock()
}

func SetExitTimeout(dur time.Duration) {
	_ExitTimeout = dur
}

// WaitExit 阻塞直到收到退出信号或Ctx结束
func WaitExit() {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(signalCh)
	select {
	case <-_Ctx.Done():
		Info("context done", nil)
	case s := <-signalCh:
		Info("signal notify", util.M{
			"signal": s.String(),
		})
		_Cancel()
	}
	RunExitFns()
}

// RunExitFns 执行BeforeExitFn注册的函数,返回是否全部按时完成
func RunExitFns() bool {
	_WaitMtx.Lock()
	infos := _WaitExitInfos
	_WaitExitInfos = nil
	_WaitMtx.Unlock()

	if len(infos) == 0 {
		return true
	}
	var wg sync.WaitGroup
	wg.Add(len(infos))
	for _, info := range infos {
		go func(info *waitInfo) {
			defer wg.Done()
			if err := util.SafeCall(info.fn, util.M{"name": info.name}); err != nil {
				Error(err)
				return
			}
			Info("exit", util.M{
				"name": info.name,
			})
		}(info)
	}
	waitCh := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitCh)
	}()

	timeout := time.NewTimer(_ExitTimeout)
	defer timeout.Stop()
	select {
	case <-timeout.C:
		Warn2(util.EcTimeout, util.M{
			"count": len(infos),
		})
		return false
	case <-waitCh:
		Info("exit complete", nil)
		return true
	}
}
