package pumpswap

import (
	"pumpswap-indexer-sol/internal/types"
)

// 本文件描述 PumpSwap AMM 各指令参数与事件的固定二进制布局（Borsh，小端，无填充）。
// 字段顺序与链上 IDL 一一对应，不得调整；程序升级只允许在布局末尾追加字段，
// 追加的字段不在固定宽度之内，由 DecodePrefix 自动忽略。
//
// 各 *Size 常量为对应结构的编码宽度（字节），新增结构时需同步给出。

// 指令参数布局（不含前 8 字节 discriminator）
const (
	BuyArgsSize        = 16 // 2 × u64；新版本追加的 track_volume 不计入
	SellArgsSize       = 16 // 2 × u64
	CreatePoolArgsSize = 18 // u16 + 2 × u64
	DepositArgsSize    = 24 // 3 × u64
	WithdrawArgsSize   = 24 // 3 × u64
)

// 事件布局（不含 self-CPI 标记与事件 discriminator）
const (
	// 14 × u64/i64 + 6 × Pubkey = 112 + 192。
	// 新版本在其后追加 coin_creator、coin_creator_fee_basis_points、
	// coin_creator_fee、track_volume，均不在 base 宽度之内。
	BuyEventSize  = 304
	SellEventSize = 304
)

type BuyArgs struct {
	BaseAmountOut    uint64 // 期望买入的 base 数量
	MaxQuoteAmountIn uint64 // 愿意支付的 quote 上限
}

type SellArgs struct {
	BaseAmountIn      uint64 // 卖出的 base 数量
	MinQuoteAmountOut uint64 // 接受的 quote 下限
}

type CreatePoolArgs struct {
	Index         uint16
	BaseAmountIn  uint64
	QuoteAmountIn uint64
}

type DepositArgs struct {
	LpTokenAmountOut uint64
	MaxBaseAmountIn  uint64
	MaxQuoteAmountIn uint64
}

type WithdrawArgs struct {
	LpTokenAmountIn   uint64
	MinBaseAmountOut  uint64
	MinQuoteAmountOut uint64
}

// BuyEvent 是 buy 指令通过 self-CPI 写出的成交事件（base 版本 304 字节前缀）。
type BuyEvent struct {
	Timestamp              int64
	BaseAmountOut          uint64
	MaxQuoteAmountIn       uint64
	UserBaseTokenReserves  uint64
	UserQuoteTokenReserves uint64
	PoolBaseTokenReserves  uint64
	PoolQuoteTokenReserves uint64
	QuoteAmountIn          uint64
	LpFeeBasisPoints       uint64
	LpFee                  uint64
	ProtocolFeeBasisPoints uint64
	ProtocolFee            uint64
	QuoteAmountInWithLpFee uint64
	UserQuoteAmountIn      uint64

	Pool                             types.Pubkey
	User                             types.Pubkey
	UserBaseTokenAccount             types.Pubkey
	UserQuoteTokenAccount            types.Pubkey
	ProtocolFeeRecipient             types.Pubkey
	ProtocolFeeRecipientTokenAccount types.Pubkey
}

// SellEvent 是 sell 指令通过 self-CPI 写出的成交事件（base 版本 304 字节前缀）。
type SellEvent struct {
	Timestamp                  int64
	BaseAmountIn               uint64
	MinQuoteAmountOut          uint64
	UserBaseTokenReserves      uint64
	UserQuoteTokenReserves     uint64
	PoolBaseTokenReserves      uint64
	PoolQuoteTokenReserves     uint64
	QuoteAmountOut             uint64
	LpFeeBasisPoints           uint64
	LpFee                      uint64
	ProtocolFeeBasisPoints     uint64
	ProtocolFee                uint64
	QuoteAmountOutWithoutLpFee uint64
	UserQuoteAmountOut         uint64

	Pool                             types.Pubkey
	User                             types.Pubkey
	UserBaseTokenAccount             types.Pubkey
	UserQuoteTokenAccount            types.Pubkey
	ProtocolFeeRecipient             types.Pubkey
	ProtocolFeeRecipientTokenAccount types.Pubkey
}
