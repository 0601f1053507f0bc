package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/15mga/hive"
	"github.com/15mga/hive/mock"
	"github.com/15mga/hive/util"
)

type hitArgs struct {
	damage int
}

var _HitId = IdOf[hitArgs]()

func (a *hitArgs) Id() Id {
	return _HitId
}

type missArgs struct{}

func (a *missArgs) Id() Id {
	return IdOf[missArgs]()
}

type recorder struct {
	calls []string
}

func (r *recorder) first(sender any, args IArgs) {
	r.calls = append(r.calls, "first")
}

func (r *recorder) second(sender any, args IArgs) {
	r.calls = append(r.calls, "second")
}

func (r *recorder) third(sender any, args IArgs) {
	r.calls = append(r.calls, "third")
}

func TestFireDrainOrder(t *testing.T) {
	b := NewBus()
	r := &recorder{}
	require.Nil(t, b.Subscribe(_HitId, r, r.first))
	require.Nil(t, b.Subscribe(_HitId, r, r.second))
	require.Nil(t, b.Subscribe(_HitId, r, r.third))
	assert.Equal(t, 3, b.Count(_HitId))

	require.Nil(t, b.Fire(nil, &hitArgs{}))
	assert.Empty(t, r.calls)
	require.Nil(t, b.Unsubscribe(_HitId, r, r.second))
	assert.False(t, b.Check(_HitId, r, r.second))

	b.Update()
	assert.Equal(t, []string{"first", "third"}, r.calls)
	b.Update()
	assert.Len(t, r.calls, 2)
}

func TestFireNow(t *testing.T) {
	b := NewBus()
	var got []int
	require.Nil(t, b.Subscribe(_HitId, nil, func(sender any, args IArgs) {
		assert.Equal(t, "me", sender)
		got = append(got, args.(*hitArgs).damage)
	}))
	require.Nil(t, b.FireNow("me", &hitArgs{damage: 3}))
	assert.Equal(t, []int{3}, got)
}

func TestDuplicate(t *testing.T) {
	r := &recorder{}
	b := NewBus()
	require.Nil(t, b.Subscribe(_HitId, r, r.first))
	assert.True(t, b.Check(_HitId, r, r.first))
	assert.True(t, util.IsErrCode(b.Subscribe(_HitId, r, r.first), util.EcExist))

	single := NewBus(BusMode(ModeAllowNoHandler))
	require.Nil(t, single.Subscribe(_HitId, r, r.first))
	assert.True(t, util.IsErrCode(single.Subscribe(_HitId, r, r.second), util.EcExist))

	dup := NewBus(BusMode(ModeDefault | ModeAllowDuplicateHandler))
	require.Nil(t, dup.Subscribe(_HitId, r, r.first))
	require.Nil(t, dup.Subscribe(_HitId, r, r.first))
	require.Nil(t, dup.FireNow(nil, &hitArgs{}))
	assert.Equal(t, []string{"first", "first"}, r.calls)

	assert.True(t, util.IsErrCode(b.Unsubscribe(IdOf[missArgs](), r, r.first), util.EcNotExist))
	assert.True(t, util.IsErrCode(b.Subscribe(_HitId, r, nil), util.EcNil))
}

func TestHandlerIdentity(t *testing.T) {
	b := NewBus()
	var got []int
	for i := 0; i < 3; i++ {
		n := i
		require.Nil(t, b.Subscribe(_HitId, nil, func(sender any, args IArgs) {
			got = append(got, n)
		}))
	}
	require.Nil(t, b.FireNow(nil, &hitArgs{}))
	assert.Equal(t, []int{0, 1, 2}, got)

	r1, r2 := &recorder{}, &recorder{}
	require.Nil(t, b.Subscribe(_HitId, r1, r1.first))
	require.Nil(t, b.Subscribe(_HitId, r2, r2.first))
	assert.True(t, util.IsErrCode(b.Subscribe(_HitId, r1, r1.first), util.EcExist))
	assert.True(t, b.Check(_HitId, r2, r2.first))
	assert.False(t, b.Check(_HitId, r2, r2.second))

	dup := NewBus(BusMode(ModeDefault | ModeAllowDuplicateHandler))
	require.Nil(t, dup.Subscribe(_HitId, r1, r1.first))
	require.Nil(t, dup.Subscribe(_HitId, r2, r2.first))
	require.Nil(t, dup.Unsubscribe(_HitId, r2, r2.first))
	require.Nil(t, dup.FireNow(nil, &hitArgs{}))
	assert.Equal(t, []string{"first"}, r1.calls)
	assert.Empty(t, r2.calls)
}

func TestClosureUnsubscribe(t *testing.T) {
	b := NewBus()
	var got []string
	h1 := func(sender any, args IArgs) { got = append(got, "h1") }
	h2 := func(sender any, args IArgs) { got = append(got, "h2") }
	require.Nil(t, b.Subscribe(_HitId, nil, h1))
	require.Nil(t, b.Subscribe(_HitId, nil, h2))
	assert.True(t, b.Check(_HitId, nil, h1))
	require.Nil(t, b.Unsubscribe(_HitId, nil, h1))
	assert.False(t, b.Check(_HitId, nil, h1))
	require.Nil(t, b.FireNow(nil, &hitArgs{}))
	assert.Equal(t, []string{"h2"}, got)
}

func TestUnsubscribeOwner(t *testing.T) {
	b := NewBus()
	r1, r2 := &recorder{}, &recorder{}
	require.Nil(t, b.Subscribe(_HitId, r1, r1.first))
	require.Nil(t, b.Subscribe(_HitId, r1, r1.second))
	require.Nil(t, b.Subscribe(IdOf[missArgs](), r1, r1.third))
	require.Nil(t, b.Subscribe(_HitId, r2, r2.first))

	assert.Equal(t, 3, b.UnsubscribeOwner(r1))
	assert.Equal(t, 1, b.Count(_HitId))
	assert.Equal(t, 0, b.Count(IdOf[missArgs]()))
	assert.Equal(t, 0, b.UnsubscribeOwner(nil))

	assert.True(t, util.IsErrCode(b.Subscribe(_HitId, []int{1}, r1.first), util.EcWrongType))
}

func TestNoHandler(t *testing.T) {
	b := NewBus()
	assert.Nil(t, b.FireNow(nil, &missArgs{}))

	var def []Id
	b.SetDefaultHandler(func(sender any, args IArgs) {
		def = append(def, args.Id())
	})
	assert.Nil(t, b.FireNow(nil, &missArgs{}))
	assert.Equal(t, []Id{IdOf[missArgs]()}, def)

	strict := NewBus(BusMode(ModeAllowMultiHandler))
	assert.True(t, util.IsErrCode(strict.FireNow(nil, &missArgs{}), util.EcNotExist))
}

func TestHandlerPanic(t *testing.T) {
	l := mock.UseLogger()
	defer hive.SetLogger()

	b := NewBus()
	r := &recorder{}
	require.Nil(t, b.Subscribe(_HitId, nil, func(sender any, args IArgs) {
		panic("handler failed")
	}))
	require.Nil(t, b.Subscribe(_HitId, r, r.second))
	require.Nil(t, b.Fire(nil, &hitArgs{}))
	b.Update()
	assert.Equal(t, []string{"second"}, r.calls)
	assert.Equal(t, 1, l.Count(hive.TError))
}

func TestFireBounded(t *testing.T) {
	b := NewBus(BusCap(2))
	require.Nil(t, b.Fire(nil, &hitArgs{}))
	require.Nil(t, b.Fire(nil, &hitArgs{}))
	assert.True(t, util.IsErrCode(b.Fire(nil, &hitArgs{}), util.EcTooMuch))
	assert.Equal(t, 2, b.Len())
	b.Update()
	assert.Equal(t, 0, b.Len())
}

func TestFireConcurrent(t *testing.T) {
	b := NewBus()
	n := 0
	require.Nil(t, b.Subscribe(_HitId, nil, func(sender any, args IArgs) {
		n += args.(*hitArgs).damage
	}))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = b.Fire(nil, &hitArgs{damage: 1})
			}
		}()
	}
	wg.Wait()
	b.Update()
	assert.Equal(t, 800, n)
}

func TestDispose(t *testing.T) {
	b := NewBus()
	r := &recorder{}
	require.Nil(t, b.Subscribe(_HitId, r, r.first))
	require.Nil(t, b.Fire(nil, &hitArgs{}))
	b.Dispose()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.Count(_HitId))
	assert.True(t, util.IsErrCode(b.Fire(nil, &hitArgs{}), util.EcClosed))
	b.Update()
	assert.Empty(t, r.calls)
}

func TestDisposeInHandler(t *testing.T) {
	b := NewBus()
	n := 0
	require.Nil(t, b.Subscribe(_HitId, nil, func(sender any, args IArgs) {
		n++
		b.Dispose()
	}))
	require.Nil(t, b.Fire(nil, &hitArgs{}))
	require.Nil(t, b.Fire(nil, &hitArgs{}))

	done := make(chan struct{})
	go func() {
		b.Update()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second * 2):
		t.Fatal("drain blocked after dispose")
	}
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, b.Len())
}

type countObserver struct {
	fired, failed, drained int
}

func (o *countObserver) EventFired(id Id, deferred bool)           { o.fired++ }
func (o *countObserver) EventDrained(count int, dur time.Duration) { o.drained += count }
func (o *countObserver) HandlerFailed(id Id)                       { o.failed++ }

func TestObserver(t *testing.T) {
	mock.UseLogger()
	defer hive.SetLogger()

	o := &countObserver{}
	b := NewBus(BusObserver(o))
	require.Nil(t, b.Subscribe(_HitId, nil, func(sender any, args IArgs) {
		panic("x")
	}))
	require.Nil(t, b.Fire(nil, &hitArgs{}))
	require.Nil(t, b.FireNow(nil, &hitArgs{}))
	b.Update()
	assert.Equal(t, 2, o.fired)
	assert.Equal(t, 1, o.drained)
	assert.Equal(t, 2, o.failed)
}

func TestIdOf(t *testing.T) {
	assert.Equal(t, IdOf[hitArgs](), IdOf[hitArgs]())
	assert.NotEqual(t, IdOf[hitArgs](), IdOf[missArgs]())
}
