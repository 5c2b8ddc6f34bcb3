package pumpswap

import (
	"pumpswap-indexer-sol/internal/logic/core"
	"pumpswap-indexer-sol/internal/types"
	"pumpswap-indexer-sol/pb"
)

// TradeEvent 把 Buy/Sell 解码结果投影为导出事件，仅 Buy/Sell 产出，其余种类返回 nil。
// 有链上事件时金额与储备取自事件（成交后的事实），否则回退到指令参数
// （意向值），储备与手续费字段写零。
func (p *ParsedInstruction) TradeEvent(ctx *core.TxContext, txHash []byte, ref core.IxRef) *pb.TradeEvent {
	switch p.Kind {
	case KindBuy:
		ev := p.tradeCommon(ctx, txHash, ref)
		ev.Type = pb.EventTypeTradeBuy
		if e := p.Buy.Event; e != nil {
			ev.BlockTime = e.Timestamp
			ev.BaseAmount = e.BaseAmountOut
			ev.QuoteAmount = e.QuoteAmountIn
			ev.PoolBaseReserves = e.PoolBaseTokenReserves
			ev.PoolQuoteReserves = e.PoolQuoteTokenReserves
			ev.LpFee = e.LpFee
			ev.ProtocolFee = e.ProtocolFee
		} else {
			ev.BaseAmount = p.Buy.Args.BaseAmountOut
			ev.QuoteAmount = p.Buy.Args.MaxQuoteAmountIn
		}
		return ev
	case KindSell:
		ev := p.tradeCommon(ctx, txHash, ref)
		ev.Type = pb.EventTypeTradeSell
		if e := p.Sell.Event; e != nil {
			ev.BlockTime = e.Timestamp
			ev.BaseAmount = e.BaseAmountIn
			ev.QuoteAmount = e.QuoteAmountOut
			ev.PoolBaseReserves = e.PoolBaseTokenReserves
			ev.PoolQuoteReserves = e.PoolQuoteTokenReserves
			ev.LpFee = e.LpFee
			ev.ProtocolFee = e.ProtocolFee
		} else {
			ev.BaseAmount = p.Sell.Args.BaseAmountIn
			ev.QuoteAmount = p.Sell.Args.MinQuoteAmountOut
		}
		return ev
	default:
		return nil
	}
}

// tradeCommon 填充 Buy/Sell 共有字段：账户角色、事件 ID、区块上下文。
// CoinCreator / CoinCreatorFee 在 base 版本事件中不存在，统一写显式零值，
// 消费端无需感知程序版本差异。
func (p *ParsedInstruction) tradeCommon(ctx *core.TxContext, txHash []byte, ref core.IxRef) *pb.TradeEvent {
	var zeroCreator types.Pubkey
	return &pb.TradeEvent{
		EventId:   core.BuildEventID(ref.TxIndex, ref.IxIndex, ref.InnerIndex),
		Slot:      ctx.Slot,
		BlockTime: ctx.BlockTime,
		TxHash:    txHash,

		Pool:      p.Accounts.Get(RolePool).Bytes(),
		User:      p.Accounts.Get(RoleUser).Bytes(),
		BaseMint:  p.Accounts.Get(RoleBaseMint).Bytes(),
		QuoteMint: p.Accounts.Get(RoleQuoteMint).Bytes(),

		UserBaseTokenAccount:  p.Accounts.Get(RoleUserBaseTokenAccount).Bytes(),
		UserQuoteTokenAccount: p.Accounts.Get(RoleUserQuoteTokenAccount).Bytes(),
		ProtocolFeeRecipient:  p.Accounts.Get(RoleProtocolFeeRecipient).Bytes(),

		CoinCreator:    zeroCreator.Bytes(),
		CoinCreatorFee: 0,
	}
}
