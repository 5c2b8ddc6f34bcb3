package pumpswap

import (
	"encoding/binary"

	"pumpswap-indexer-sol/internal/logic/core"
)

// eventHeaderSize = 自调用日志标记(8) + 事件 discriminator(8)
const eventHeaderSize = 16

// extractEvent 在 inner 指令序列里查找第一条匹配的 Anchor 事件回声并解码。
// 匹配条件：data 前 8 字节为自调用日志标记，随后 8 字节等于 disc。
// 只取第一条匹配；事件体解码失败视同事件缺失（事件是补充信息，不反转指令成败）。
func extractEvent[T any](inner []core.InnerRecord, disc [8]byte, width int) (T, bool) {
	var zero T
	for _, rec := range inner {
		if len(rec.Data) < eventHeaderSize {
			continue
		}
		if binary.BigEndian.Uint64(rec.Data[:8]) != AnchorSelfCPILog {
			continue
		}
		if [8]byte(rec.Data[8:16]) != disc {
			continue
		}
		ev, ok := DecodePrefix[T](rec.Data[eventHeaderSize:], width)
		if !ok {
			return zero, false
		}
		return ev, true
	}
	return zero, false
}
