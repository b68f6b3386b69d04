package snowflake

import (
	"hash/fnv"
	"os"
	"sync"

	bwsnowflake "github.com/bwmarrin/snowflake"
)

var (
	once sync.Once
	mu   sync.Mutex
	node *bwsnowflake.Node
)

// SetNodeID overrides the hostname-derived node ID (0-1023). Call once at bootstrap.
func SetNodeID(id int64) error {
	n, err := bwsnowflake.NewNode(id & 0x3FF)
	if err != nil {
		return err
	}
	once.Do(func() {})
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

func initNode() {
	mu.Lock()
	defer mu.Unlock()
	if node != nil {
		return
	}
	host, _ := os.Hostname()
	h := fnv.New32a()
	_, _ = h.Write([]byte(host))
	n, err := bwsnowflake.NewNode(int64(h.Sum32()) & 0x3FF)
	if err != nil {
		n, _ = bwsnowflake.NewNode(1)
	}
	node = n
}

func current() *bwsnowflake.Node {
	once.Do(initNode)
	mu.Lock()
	defer mu.Unlock()
	return node
}

// Next returns a new numeric snowflake id.
func Next() int64 {
	return current().Generate().Int64()
}

// NextSessionID returns a base36 snowflake id, short enough for cookies and URLs.
func NextSessionID() string {
	return current().Generate().Base36()
}
