package pumpswap

import (
	"github.com/near/borsh-go"
)

// DecodePrefix 将 buf 的前 width 字节按 T 的固定 Borsh 布局解码，忽略其后所有字节。
//
// 这是整个解码器的前向兼容机制：链上程序升级只会在既有布局之后追加字段，
// 旧解码器照常读取前缀即可。反过来，前缀内字段的顺序或类型一旦变更，
// 这里会解出错误数据且与普通损坏无法区分——这是前缀解码的已知局限，
// 按设计不做版本协商（与上游程序的演进约定保持一致）。
//
// buf 长度不足 width，或前缀字节不满足 T 的布局时返回 false，从不 panic；
// 是否把“无值”当作错误由调用方决定。
func DecodePrefix[T any](buf []byte, width int) (T, bool) {
	var v T
	if len(buf) < width {
		return v, false
	}
	if err := borsh.Deserialize(&v, buf); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}
