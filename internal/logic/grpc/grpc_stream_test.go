package grpc

import (
	"testing"
	"time"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/stretchr/testify/assert"
)

func TestBlockLatencyMs(t *testing.T) {
	now := time.UnixMilli(1_700_000_500_000)

	t.Run("normal blockTime", func(t *testing.T) {
		block := &pb.SubscribeUpdateBlock{
			Slot:      123,
			BlockTime: &pb.UnixTimestamp{Timestamp: 1_700_000_000},
		}
		assert.Equal(t, int64(500_000), blockLatencyMs(now, block))
	})

	// blockTime 缺失时不能 panic，按 timestamp=0 计算
	t.Run("nil blockTime", func(t *testing.T) {
		block := &pb.SubscribeUpdateBlock{Slot: 123}
		assert.NotPanics(t, func() {
			assert.Equal(t, now.UnixMilli(), blockLatencyMs(now, block))
		})
	})
}
