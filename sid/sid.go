package sid

import (
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"

	"github.com/15mga/hive/util"
	"github.com/bwmarrin/snowflake"
)

var _Node atomic.Pointer[snowflake.Node]

func init() {
	_ = SetNodeId(1)
}

// SetNodeId 切换snowflake节点,多进程部署时每个进程需不同,范围0-1023
func SetNodeId(id int64) *util.Err {
	node, e := snowflake.NewNode(id)
	if e != nil {
		err := util.WrapErr(util.EcParamsErr, e)
		err.AddParam("node", id)
		return err
	}
	_Node.Store(node)
	return nil
}

func GetId() int64 {
	return _Node.Load().Generate().Int64()
}

// GetStrId 大端序16位hex
func GetStrId() string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(GetId()))
	return hex.EncodeToString(b[:])
}
