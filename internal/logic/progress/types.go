package progress

// SlotStatus 表示 slot 的处理状态
type SlotStatus int

const (
	SlotUnknown   SlotStatus = 0 // Redis 不存在
	SlotProcessed SlotStatus = 1 // 已处理成功
	SlotInvalid   SlotStatus = 2 // 明确结构错误、跳过
	SlotPending   SlotStatus = 3 // 标记中，暂未完成（幂等控制）
	SlotEmpty     SlotStatus = 4 // RPC 核对确认链上无此区块
)

func (s SlotStatus) String() string {
	switch s {
	case SlotProcessed:
		return "processed"
	case SlotInvalid:
		return "invalid"
	case SlotPending:
		return "pending"
	case SlotEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
