package pumpswap

import (
	"testing"

	"pumpswap-indexer-sol/internal/logic/core"
	"pumpswap-indexer-sol/pb"

	"github.com/stretchr/testify/assert"
)

func TestTradeEventProjection(t *testing.T) {
	ctx := &core.TxContext{Slot: 350000000, BlockTime: 1700000100}
	txHash := make([]byte, 64)
	txHash[0] = 0xEE
	ref := core.IxRef{TxIndex: 5, IxIndex: 2, InnerIndex: 1}

	swapLen := len(swapRoles.required) + len(swapRoles.optional)

	// 有链上事件：金额与储备取自事件
	t.Run("buy with event", func(t *testing.T) {
		raw := &core.RawInstruction{
			Data:     buildIx(Buy, leU64(100, 999)),
			Accounts: mkAccounts(swapLen),
			Inner: []core.InnerRecord{
				{Data: selfLogRecord(BuyEventDiscriminator, encodeBuyEvent(&BuyEvent{
					Timestamp:              1700000099,
					BaseAmountOut:          100,
					QuoteAmountIn:          950,
					PoolBaseTokenReserves:  10_000,
					PoolQuoteTokenReserves: 20_000,
					LpFee:                  2,
					ProtocolFee:            1,
				}))},
			},
		}
		parsed, err := Dispatch(raw)
		assert.NoError(t, err)

		ev := parsed.TradeEvent(ctx, txHash, ref)
		assert.NotNil(t, ev)
		assert.Equal(t, pb.EventTypeTradeBuy, ev.Type)
		assert.Equal(t, core.BuildEventID(5, 2, 1), ev.EventId)
		assert.Equal(t, uint64(350000000), ev.Slot)
		assert.Equal(t, int64(1700000099), ev.BlockTime) // 事件时间戳优先于区块时间
		assert.Equal(t, txHash, ev.TxHash)
		assert.Equal(t, uint64(100), ev.BaseAmount)
		assert.Equal(t, uint64(950), ev.QuoteAmount) // 实际成交额，非参数上限
		assert.Equal(t, uint64(10_000), ev.PoolBaseReserves)
		assert.Equal(t, uint64(20_000), ev.PoolQuoteReserves)
		assert.Equal(t, uint64(2), ev.LpFee)
		assert.Equal(t, uint64(1), ev.ProtocolFee)
		assert.Equal(t, raw.Accounts[0].Bytes(), ev.Pool)
		assert.Equal(t, raw.Accounts[1].Bytes(), ev.User)
		// base 版本事件不含 coin_creator：显式零值
		assert.Equal(t, make([]byte, 32), ev.CoinCreator)
		assert.Equal(t, uint64(0), ev.CoinCreatorFee)
	})

	// 无事件回声：回退到指令参数，储备与手续费写零
	t.Run("buy without event falls back to args", func(t *testing.T) {
		raw := &core.RawInstruction{
			Data:     buildIx(Buy, leU64(100, 999)),
			Accounts: mkAccounts(swapLen),
		}
		parsed, err := Dispatch(raw)
		assert.NoError(t, err)

		ev := parsed.TradeEvent(ctx, txHash, ref)
		assert.Equal(t, int64(1700000100), ev.BlockTime) // 回退到区块时间
		assert.Equal(t, uint64(100), ev.BaseAmount)
		assert.Equal(t, uint64(999), ev.QuoteAmount)
		assert.Equal(t, uint64(0), ev.PoolBaseReserves)
		assert.Equal(t, uint64(0), ev.LpFee)
	})

	t.Run("sell with event", func(t *testing.T) {
		// SellEvent 与 BuyEvent 同构，借用 encodeBuyEvent 的布局填充数值字段
		body := encodeBuyEvent(&BuyEvent{
			Timestamp:              1700000098,
			BaseAmountOut:          300, // 对应 SellEvent.BaseAmountIn
			QuoteAmountIn:          280, // 对应 SellEvent.QuoteAmountOut
			PoolBaseTokenReserves:  5_000,
			PoolQuoteTokenReserves: 6_000,
		})
		raw := &core.RawInstruction{
			Data:     buildIx(Sell, leU64(300, 250)),
			Accounts: mkAccounts(swapLen),
			Inner: []core.InnerRecord{
				{Data: selfLogRecord(SellEventDiscriminator, body)},
			},
		}
		parsed, err := Dispatch(raw)
		assert.NoError(t, err)

		ev := parsed.TradeEvent(ctx, txHash, ref)
		assert.Equal(t, pb.EventTypeTradeSell, ev.Type)
		assert.Equal(t, uint64(300), ev.BaseAmount)
		assert.Equal(t, uint64(280), ev.QuoteAmount)
		assert.Equal(t, uint64(5_000), ev.PoolBaseReserves)
	})

	// 非交易指令不产出事件
	t.Run("non trade kinds yield nil", func(t *testing.T) {
		raw := &core.RawInstruction{
			Data:     buildIx(Deposit, leU64(1, 2, 3)),
			Accounts: mkAccounts(len(liquidityRoles.required)),
		}
		parsed, err := Dispatch(raw)
		assert.NoError(t, err)
		assert.Nil(t, parsed.TradeEvent(ctx, txHash, ref))

		filtered := &ParsedInstruction{Kind: KindFiltered, Filter: FilterSelfLog}
		assert.Nil(t, filtered.TradeEvent(ctx, txHash, ref))
	})
}
