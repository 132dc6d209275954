package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// snowflakeEpoch is Mon Jan 01 2024 00:00:00.000 UTC in milliseconds.
const snowflakeEpoch = 1704067200000

// MaxNode is the largest node id a Snowflake generator accepts.
const MaxNode = 1<<10 - 1

// Snowflake generates numeric IDs using the Snowflake algorithm.
type Snowflake struct {
	node *snowflake.Node
}

func generateRandomNodeID() (int64, error) {
	var nodeID int64
	err := binary.Read(rand.Reader, binary.BigEndian, &nodeID)
	if err != nil {
		return 0, err
	}

	return nodeID & MaxNode, nil
}

// NewSnowflake constructs a Snowflake generator with a random node ID.
func NewSnowflake() (*Snowflake, error) {
	nodeID, err := generateRandomNodeID()
	if err != nil {
		return nil, err
	}

	return NewSnowflakeNode(nodeID)
}

// NewSnowflakeNode constructs a generator for a fixed node, so hosts that run
// training concurrently never mint the same run id.
func NewSnowflakeNode(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > MaxNode {
		return nil, fmt.Errorf("snowflake node %d out of range 0..%d", nodeID, MaxNode)
	}

	snowflake.Epoch = snowflakeEpoch

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new unique numeric ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
