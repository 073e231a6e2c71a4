package idutil

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	nodeOnce sync.Once
	node     *snowflake.Node
	nodeErr  error
	nodeID   int64 = 1
)

// SetNode must be called before the first NewSnowflakeID to take effect.
func SetNode(id int64) {
	nodeID = id
}

func NewSnowflakeID() (string, error) {
	nodeOnce.Do(func() {
		node, nodeErr = snowflake.NewNode(nodeID)
	})
	if nodeErr != nil {
		return "", nodeErr
	}

	return node.Generate().String(), nil
}

// TimeOf returns the creation time encoded in a snowflake id.
func TimeOf(id string) (time.Time, error) {
	sID, err := snowflake.ParseString(id)
	if err != nil {
		return time.Time{}, err
	}

	return time.UnixMilli(sID.Time()), nil
}
