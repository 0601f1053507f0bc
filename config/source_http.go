package config

import (
	"context"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/15mga/hive/util"
)

type HttpOption func(s *HttpSource)

func HttpClient(client *fasthttp.Client) HttpOption {
	return func(s *HttpSource) {
		s.client = client
	}
}

// HttpHeader 每次请求附带的header,如鉴权
func HttpHeader(key, val string) HttpOption {
	return func(s *HttpSource) {
		s.headers[key] = val
	}
}

// NewHttpSource GET baseUrl/name+ext
func NewHttpSource(baseUrl, ext string, opts ...HttpOption) *HttpSource {
	s := &HttpSource{
		baseUrl: strings.TrimSuffix(baseUrl, "/"),
		ext:     ext,
		headers: make(util.MS),
	}
	for _, o := range opts {
		o(s)
	}
	if s.client == nil {
		s.client = &fasthttp.Client{}
	}
	return s
}

type HttpSource struct {
	baseUrl string
	ext     string
	headers util.MS
	client  *fasthttp.Client
}

func (s *HttpSource) Get(ctx context.Context, name string) ([]byte, *util.Err) {
	req := fasthttp.AcquireRequest()
	res := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(res)
	}()
	url := s.baseUrl + "/" + name + s.ext
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	var e error
	if deadline, ok := ctx.Deadline(); ok {
		e = s.client.DoDeadline(req, res, deadline)
	} else {
		e = s.client.Do(req, res)
	}
	if e != nil {
		err := util.WrapErr(util.EcConnectErr, e)
		err.AddParam("url", url)
		return nil, err
	}
	switch res.StatusCode() {
	case fasthttp.StatusOK:
		return append([]byte(nil), res.Body()...), nil
	case fasthttp.StatusNotFound:
		return nil, notExist(name)
	default:
		return nil, util.NewErr(util.EcServiceErr, util.M{
			"url":    url,
			"status": res.StatusCode(),
		})
	}
}
