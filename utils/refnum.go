package utils

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	refNode *snowflake.Node
	refOnce sync.Once
)

// NewRefNumber menghasilkan nomor referensi opaque untuk order / transaksi kas,
// mis. "ORD-2J4F9KQZ". Unik per proses tanpa perlu koordinasi database.
func NewRefNumber(prefix string) string {
	refOnce.Do(func() {
		node, err := snowflake.NewNode(1)
		if err != nil {
			panic(fmt.Sprintf("snowflake init: %v", err))
		}
		refNode = node
	})
	return fmt.Sprintf("%s-%s", prefix, refNode.Generate().Base36())
}
