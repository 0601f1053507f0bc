package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/15mga/hive"
	"github.com/15mga/hive/util"
)

type listenerOption struct {
	addr string
	path string
}

type ListenerOption func(option *listenerOption)

// ListenerAddr 默认":9090"
func ListenerAddr(addr string) ListenerOption {
	return func(option *listenerOption) {
		option.addr = addr
	}
}

// ListenerPath 默认"/metrics"
func ListenerPath(path string) ListenerOption {
	return func(option *listenerOption) {
		option.path = path
	}
}

func NewListener(gatherer prometheus.Gatherer, opts ...ListenerOption) *Listener {
	o := &listenerOption{
		addr: ":9090",
		path: "/metrics",
	}
	for _, opt := range opts {
		opt(o)
	}
	mux := http.NewServeMux()
	mux.Handle(o.path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &Listener{
		option: o,
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: time.Second * 5,
		},
	}
}

type Listener struct {
	option *listenerOption
	server *http.Server
	addr   net.Addr
}

// Addr Start之后为实际监听地址
func (l *Listener) Addr() string {
	if l.addr != nil {
		return l.addr.String()
	}
	return l.option.addr
}

func (l *Listener) Start() *util.Err {
	ln, e := net.Listen("tcp", l.option.addr)
	if e != nil {
		err := util.WrapErr(util.EcConnectErr, e)
		err.AddParam("addr", l.option.addr)
		return err
	}
	l.addr = ln.Addr()
	hive.Info("start metrics listener", util.M{
		"addr": l.addr.String(),
		"path": l.option.path,
	})
	go func() {
		e := l.server.Serve(ln)
		if e != nil && !errors.Is(e, http.ErrServerClosed) {
			hive.Error3(util.EcServiceErr, e)
		}
	}()
	return nil
}

func (l *Listener) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if e := l.server.Shutdown(ctx); e != nil {
		hive.Error3(util.EcServiceErr, e)
	}
}
