package core

import (
	"pumpswap-indexer-sol/pb"
)

type Event struct {
	ID        uint32         // slot 内唯一事件 ID（txIndex、ixIndex、innerIndex 组合）
	EventType uint32         // 枚举型，见 pb.EventType*
	Key       []byte         // Kafka 分区 key，使用池子地址保证同池有序
	Trade     *pb.TradeEvent // 投影后的实际事件内容
}

// BuildEventID 构造事件唯一标识 ID（uint32），由 txIndex、ixIndex、innerIndex 组合而成：
//   - txIndex    (16 bits): 当前交易在区块中的序号
//   - ixIndex    (8 bits) : 当前交易中的主指令序号
//   - innerIndex (8 bits) : inner 指令序号，主指令为 0
//
// 编码结构：
//
//	[ 16 bits txIndex ] [ 8 bits ixIndex ] [ 8 bits innerIndex ]
func BuildEventID(txIndex uint32, ixIndex uint16, innerIndex uint16) uint32 {
	return (txIndex << 16) | (uint32(ixIndex&0xFF) << 8) | uint32(innerIndex&0xFF)
}
