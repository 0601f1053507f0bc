package metrics

import (
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListener(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New("hive", reg)
	require.Nil(t, err)
	m.SingletonAdded("a")

	l := NewListener(reg, ListenerAddr("127.0.0.1:0"))
	require.Nil(t, l.Start())
	defer l.Close()

	res, e := http.Get("http://" + l.Addr() + "/metrics")
	require.NoError(t, e)
	defer res.Body.Close()
	body, e := io.ReadAll(res.Body)
	require.NoError(t, e)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "hive_world_singletons 1")
}

func TestListenerAddrInUse(t *testing.T) {
	l := NewListener(prometheus.NewRegistry(), ListenerAddr("127.0.0.1:0"))
	require.Nil(t, l.Start())
	defer l.Close()

	l2 := NewListener(prometheus.NewRegistry(), ListenerAddr(l.Addr()))
	assert.NotNil(t, l2.Start())
}
