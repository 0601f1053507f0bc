package hive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/15mga/hive"
)

func TestVar(t *testing.T) {
	hive.AddVar("var_test_port", 80, "port")
	hive.AddVar("var_test_name", "hive", "name")
	hive.AddVar("var_test_debug", false, "debug")
	t.Setenv("VAR_TEST_NAME", "env")

	require.Nil(t, hive.ParseVar([]string{"-var_test_port", "8080", "-var_test_debug"}))

	port, ok := hive.GetVar[int]("var_test_port")
	assert.True(t, ok)
	assert.Equal(t, 8080, port)
	name, _ := hive.GetVar[string]("var_test_name")
	assert.Equal(t, "env", name)
	debug, _ := hive.GetVar[bool]("var_test_debug")
	assert.True(t, debug)

	_, ok = hive.GetVar[string]("var_test_port")
	assert.False(t, ok)
	_, ok = hive.GetVar[int]("missing")
	assert.False(t, ok)
}
