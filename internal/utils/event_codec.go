package utils

import (
	"encoding/binary"
)

// EncodeEvent 将已序列化的事件体编码为带类型前缀的二进制数据：
// - 前 4 字节为事件类型（uint32，小端序）
// - 后续为事件体的 proto 线格式字节
// 消费端先读前缀路由，再按类型反序列化事件体。
func EncodeEvent(eventType uint32, payload []byte) []byte {
	buf := make([]byte, 4, 4+len(payload))
	binary.LittleEndian.PutUint32(buf[:4], eventType)
	return append(buf, payload...)
}

// DecodeEventType 从编码数据中读出事件类型前缀；数据不足 4 字节返回 false
func DecodeEventType(data []byte) (uint32, bool) {
	if len(data) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data[:4]), true
}
