package host

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/15mga/hive/singleton"
	"github.com/15mga/hive/util"
	"github.com/15mga/hive/world"
)

type recorder struct {
	singleton.Singleton
	calls []string
}

func (r *recorder) Update() {
	r.calls = append(r.calls, "update")
}

func (r *recorder) LateUpdate() {
	r.calls = append(r.calls, "late")
}

func TestTick(t *testing.T) {
	w := world.New()
	r, err := world.Add[recorder](w)
	require.Nil(t, err)

	h := New(w)
	finish := w.WaitFrameFinish()
	h.Tick()
	assert.Equal(t, []string{"update", "late"}, r.calls)
	assert.Equal(t, int64(1), h.Frame())
	select {
	case <-finish:
	default:
		t.Fatal("frame finish not released")
	}
}

type counter struct {
	singleton.Singleton
	ch chan struct{}
}

func (c *counter) Update() {
	select {
	case c.ch <- struct{}{}:
	default:
	}
}

func TestRun(t *testing.T) {
	w := world.New()
	c, err := world.Add[counter](w)
	require.Nil(t, err)
	c.ch = make(chan struct{}, 16)

	mock := clock.NewMock()
	h := New(w, Clock(mock), Interval(time.Millisecond*10))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *util.Err, 1)
	go func() {
		done <- h.Run(ctx)
	}()

	assert.Eventually(t, func() bool {
		mock.Add(time.Millisecond * 10)
		return h.Frame() >= 3
	}, time.Second*5, time.Millisecond)

	cancel()
	select {
	case err = <-done:
		assert.Nil(t, err)
	case <-time.After(time.Second * 5):
		t.Fatal("run not stopped")
	}
	assert.GreaterOrEqual(t, len(c.ch), 3)
}

func TestRunClosedWorld(t *testing.T) {
	w := world.New()
	require.Nil(t, w.Close())

	mock := clock.NewMock()
	h := New(w, Clock(mock))
	done := make(chan *util.Err, 1)
	go func() {
		done <- h.Run(context.Background())
	}()

	var err *util.Err
	assert.Eventually(t, func() bool {
		mock.Add(DefInterval)
		select {
		case err = <-done:
			return true
		default:
			return false
		}
	}, time.Second*5, time.Millisecond)
	assert.True(t, util.IsErrCode(err, util.EcClosed))
	assert.Equal(t, int64(0), h.Frame())
}
