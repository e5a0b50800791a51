package uid

import (
	"crypto/sha256"
	"encoding/binary"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates 63-bit time-ordered numeric IDs.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a generator whose node number is derived from the
// machine identity, so replicas on different hosts do not collide.
func NewSnowflake() (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeNumber())
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new snowflake ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

// nodeNumber derives a stable node number in [0, 1023] from machine-id or
// hostname, falling back to the process ID.
func nodeNumber() int64 {
	src := ""
	if b, err := os.ReadFile("/etc/machine-id"); err == nil {
		src = strings.TrimSpace(string(b))
	}
	if src == "" {
		if h, err := os.Hostname(); err == nil {
			src = strings.TrimSpace(h)
		}
	}
	if src == "" {
		return int64(os.Getpid() % 1024)
	}

	sum := sha256.Sum256([]byte(src))

	return int64(binary.BigEndian.Uint16(sum[:2]) % 1024)
}
