package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisProgressStore 管理 Redis 中的 slot 状态记录（幂等控制 + 漏扫核对）
type RedisProgressStore struct {
	rdb *redis.Client
}

const slotKeyPrefix = "progress:trade:slot"

// slot 状态记录的 TTL，够覆盖回补窗口即可
const slotTTL = 7 * 24 * time.Hour

// NewRedisProgressStore 创建 Redis 判重管理器
func NewRedisProgressStore(rdb *redis.Client) *RedisProgressStore {
	return &RedisProgressStore{rdb: rdb}
}

func (r *RedisProgressStore) getKey(slot uint64) string {
	return fmt.Sprintf("%s:%d", slotKeyPrefix, slot)
}

// GetSlotStatus 获取 slot 的状态（Unknown / Processed / Invalid / Pending / Empty）
func (r *RedisProgressStore) GetSlotStatus(ctx context.Context, slot uint64) (SlotStatus, error) {
	val, err := r.rdb.Get(ctx, r.getKey(slot)).Int()
	switch {
	case err == redis.Nil:
		return SlotUnknown, nil
	case err != nil:
		return SlotUnknown, fmt.Errorf("redis get error: %w", err)
	case val >= int(SlotProcessed) && val <= int(SlotEmpty):
		return SlotStatus(val), nil
	default:
		return SlotUnknown, nil // 容错处理
	}
}

// MarkSlotStatus 设置 slot 的状态
func (r *RedisProgressStore) MarkSlotStatus(ctx context.Context, slot uint64, status SlotStatus) error {
	return r.rdb.Set(ctx, r.getKey(slot), int(status), slotTTL).Err()
}

// TryMarkSlotPending 尝试以 SETNX 抢占 slot 的处理权：
// 返回 true 表示抢占成功，应继续处理；false 表示其他实例已处理或正在处理。
func (r *RedisProgressStore) TryMarkSlotPending(ctx context.Context, slot uint64) (bool, error) {
	ok, err := r.rdb.SetNX(ctx, r.getKey(slot), int(SlotPending), slotTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx error: %w", err)
	}
	return ok, nil
}

// MarkSlotProcessed 标记 slot 为已处理
func (r *RedisProgressStore) MarkSlotProcessed(ctx context.Context, slot uint64) error {
	return r.MarkSlotStatus(ctx, slot, SlotProcessed)
}

// MarkSlotInvalid 标记 slot 为无效（结构失败、跳过）
func (r *RedisProgressStore) MarkSlotInvalid(ctx context.Context, slot uint64) error {
	return r.MarkSlotStatus(ctx, slot, SlotInvalid)
}

// MarkSlotEmpty 标记 slot 为链上空块（RPC 核对结论）
func (r *RedisProgressStore) MarkSlotEmpty(ctx context.Context, slot uint64) error {
	return r.MarkSlotStatus(ctx, slot, SlotEmpty)
}
