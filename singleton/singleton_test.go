package singleton

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/15mga/hive/util"
)

type svc struct {
	Singleton
	disposed int
}

func (s *svc) Dispose() {
	s.disposed++
}

type bad struct {
	Singleton
}

func (b *bad) Dispose() {
	panic("dispose failed")
}

func TestLifecycle(t *testing.T) {
	s := &svc{}
	assert.Equal(t, StateUnregistered, s.State())
	assert.Nil(t, Register(s))
	assert.Equal(t, StateRegistered, s.State())
	assert.True(t, util.IsErrCode(Register(s), util.EcExist))

	ok, err := Destroy(s)
	assert.True(t, ok)
	assert.Nil(t, err)
	assert.True(t, s.IsDisposed())
	ok, err = Destroy(s)
	assert.False(t, ok)
	assert.Nil(t, err)
	assert.Equal(t, 1, s.disposed)

	assert.True(t, util.IsErrCode(Register(s), util.EcClosed))
	assert.Equal(t, StateDisposed, s.State())
}

func TestRegisterNil(t *testing.T) {
	var s *svc
	assert.True(t, util.IsErrCode(Register(s), util.EcNil))
	assert.True(t, util.IsErrCode(Register(nil), util.EcNil))
	ok, _ := Destroy(s)
	assert.False(t, ok)
}

func TestDestroyPanic(t *testing.T) {
	b := &bad{}
	ok, err := Destroy(b)
	assert.True(t, ok)
	assert.True(t, util.IsErrCode(err, util.EcRecover))
	assert.True(t, b.IsDisposed())
}

func TestName(t *testing.T) {
	assert.Equal(t, "*singleton.svc", Name(&svc{}))
	assert.Equal(t, "unregistered", StateUnregistered.String())
}
