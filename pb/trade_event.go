// Package pb 定义事件导出的 proto 线格式（见 event.proto）。
//
// 序列化使用 protowire 手写而非 protoc 生成代码：TradeEvent 是单向投影，
// 只写不读，手写 Marshal 可以固定字段写出顺序并显式写出零值字段，
// 生成代码反而做不到后者（proto3 会省略零值）。
package pb

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// EventType 枚举值，与 event.proto 保持一致
const (
	EventTypeUnknown   uint32 = 0
	EventTypeTradeBuy  uint32 = 1
	EventTypeTradeSell uint32 = 2
)

// TradeEvent 是 Buy/Sell 解码结果的导出投影。
// 字段集固定：base 版本事件中不存在的字段（CoinCreator、CoinCreatorFee）
// 由投影层显式填充零值哨兵，消费端无需区分程序版本。
type TradeEvent struct {
	Type      uint32
	EventId   uint32
	Slot      uint64
	BlockTime int64
	TxHash    []byte

	Pool      []byte
	User      []byte
	BaseMint  []byte
	QuoteMint []byte

	BaseAmount  uint64
	QuoteAmount uint64

	PoolBaseReserves  uint64
	PoolQuoteReserves uint64

	LpFee       uint64
	ProtocolFee uint64

	UserBaseTokenAccount  []byte
	UserQuoteTokenAccount []byte
	ProtocolFeeRecipient  []byte

	CoinCreator    []byte
	CoinCreatorFee uint64
}

// Marshal 按 event.proto 的字段编号序列化为 proto3 线格式。
// 所有字段无条件写出（包括零值），这是刻意偏离 proto3 默认行为的一点：
// 下游按固定字段集解读，缺字段与零值不该有语义差别。
func (e *TradeEvent) Marshal() []byte {
	// 20 个字段、9 个 32~64 字节的 bytes 字段，512 足够容纳绝大多数事件
	b := make([]byte, 0, 512)

	b = appendUint(b, 1, uint64(e.Type))
	b = appendUint(b, 2, uint64(e.EventId))
	b = appendUint(b, 3, e.Slot)
	b = appendUint(b, 4, uint64(e.BlockTime))
	b = appendBytes(b, 5, e.TxHash)

	b = appendBytes(b, 6, e.Pool)
	b = appendBytes(b, 7, e.User)
	b = appendBytes(b, 8, e.BaseMint)
	b = appendBytes(b, 9, e.QuoteMint)

	b = appendUint(b, 10, e.BaseAmount)
	b = appendUint(b, 11, e.QuoteAmount)

	b = appendUint(b, 12, e.PoolBaseReserves)
	b = appendUint(b, 13, e.PoolQuoteReserves)

	b = appendUint(b, 14, e.LpFee)
	b = appendUint(b, 15, e.ProtocolFee)

	b = appendBytes(b, 16, e.UserBaseTokenAccount)
	b = appendBytes(b, 17, e.UserQuoteTokenAccount)
	b = appendBytes(b, 18, e.ProtocolFeeRecipient)

	b = appendBytes(b, 19, e.CoinCreator)
	b = appendUint(b, 20, e.CoinCreatorFee)
	return b
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}
