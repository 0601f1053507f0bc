package util

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	err := NewErr(EcNotExist, M{"id": 1})
	assert.Equal(t, EcNotExist, err.Code())
	assert.Equal(t, "not_exist", err.Error())
	assert.NotEmpty(t, err.Stack())
	assert.True(t, IsErrCode(err, EcNotExist))
	assert.False(t, IsErrCode(err, EcExist))
	assert.False(t, IsErrCode(nil, EcNotExist))

	err.AddParam("name", "a")
	err.AddParams(M{"type": "b"})
	v, ok := err.GetParam("name")
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	assert.Len(t, err.Params(), 3)
}

func TestWrapErr(t *testing.T) {
	err := WrapErr(EcIo, errors.New("disk full"))
	assert.Equal(t, "io_error: disk full", err.Error())

	err = WrapErr(EcIo, nil)
	_, ok := err.GetParam("error")
	assert.False(t, ok)
}

func TestErrStack(t *testing.T) {
	stack := string(NewErr(EcNil, nil).Stack())
	assert.True(t, strings.Contains(stack, "TestErrStack"))
	assert.LessOrEqual(t, strings.Count(stack, "\n\t"), _StackDepth)
}

func TestErrCodeToStr(t *testing.T) {
	assert.Equal(t, "object_nil", ErrCodeToStr(EcNil))
	assert.Equal(t, "etcd_wrong", ErrCodeToStr(EcEtcdErr))
	assert.Equal(t, "1001", ErrCodeToStr(1001))
	assert.Equal(t, "60000", ErrCodeToStr(60000))
}
