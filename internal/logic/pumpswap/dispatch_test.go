package pumpswap

import (
	"testing"

	"pumpswap-indexer-sol/internal/consts"
	"pumpswap-indexer-sol/internal/logic/core"

	"github.com/stretchr/testify/assert"
)

// buildIx 组装一条指令的 data：discriminator + 载荷
func buildIx(tag uint64, payload []byte) []byte {
	return append(discBE(tag), payload...)
}

func TestDispatch(t *testing.T) {
	swapLen := len(swapRoles.required) + len(swapRoles.optional) // 19

	// 数据不足 8 字节：TooShort，不尝试识别截断的 discriminator
	t.Run("too short", func(t *testing.T) {
		raw := &core.RawInstruction{Data: []byte{0x66, 0x06, 0x3d, 0x12}}
		parsed, err := Dispatch(raw)
		assert.Nil(t, parsed)
		de, ok := AsDecodeError(err)
		assert.True(t, ok)
		assert.Equal(t, ErrKindTooShort, de.Kind)
	})

	// 顶层 data 是事件回声：Filtered，优先于一切其他判断
	t.Run("self log filtered", func(t *testing.T) {
		raw := &core.RawInstruction{Data: selfLogRecord(BuyEventDiscriminator, make([]byte, BuyEventSize))}
		parsed, err := Dispatch(raw)
		assert.NoError(t, err)
		assert.Equal(t, KindFiltered, parsed.Kind)
		assert.Equal(t, FilterSelfLog, parsed.Filter)
	})

	// 父程序是已知聚合器：即使 data 是合法 Buy 也过滤
	t.Run("aggregator parent filtered", func(t *testing.T) {
		parent := consts.JupiterV6Program
		raw := &core.RawInstruction{
			Data:          buildIx(Buy, leU64(100, 200)),
			Accounts:      mkAccounts(swapLen),
			ParentProgram: &parent,
		}
		parsed, err := Dispatch(raw)
		assert.NoError(t, err)
		assert.Equal(t, KindFiltered, parsed.Kind)
		assert.Equal(t, FilterKnownAggregator, parsed.Filter)
	})

	// 非聚合器父程序正常解码
	t.Run("benign parent decoded", func(t *testing.T) {
		parent := testPk(0x77)
		raw := &core.RawInstruction{
			Data:          buildIx(Buy, leU64(100, 200)),
			Accounts:      mkAccounts(swapLen),
			ParentProgram: &parent,
		}
		parsed, err := Dispatch(raw)
		assert.NoError(t, err)
		assert.Equal(t, KindBuy, parsed.Kind)
	})

	// discriminator 未登记：UnknownInstruction
	t.Run("unknown discriminator", func(t *testing.T) {
		raw := &core.RawInstruction{Data: buildIx(0x0102030405060708, leU64(1, 2))}
		parsed, err := Dispatch(raw)
		assert.Nil(t, parsed)
		de, ok := AsDecodeError(err)
		assert.True(t, ok)
		assert.Equal(t, ErrKindUnknownInstruction, de.Kind)
	})

	// Buy 完整流程：参数尾部带追加字段、账户含可选后缀、inner 里有事件回声
	t.Run("buy with event and trailing bytes", func(t *testing.T) {
		event := &BuyEvent{
			Timestamp:              1700000000,
			BaseAmountOut:          123456,
			QuoteAmountIn:          654000,
			PoolBaseTokenReserves:  1_000_000,
			PoolQuoteTokenReserves: 2_000_000,
			LpFee:                  25,
			ProtocolFee:            5,
			Pool:                   testPk(0xB1),
		}
		// 事件体后附 48 字节模拟新版本追加字段
		body := append(encodeBuyEvent(event), make([]byte, 48)...)
		// 参数后附 1 字节模拟 track_volume
		payload := append(leU64(123456, 700000), 0x01)

		raw := &core.RawInstruction{
			Data:     buildIx(Buy, payload),
			Accounts: mkAccounts(swapLen),
			Inner: []core.InnerRecord{
				{ProgramID: testPk(2), Data: []byte{0xaa, 0xbb}},
				{ProgramID: consts.PumpSwapAMMProgram, Data: selfLogRecord(BuyEventDiscriminator, body)},
			},
			Context: core.IxRef{TxIndex: 3, IxIndex: 1},
		}
		parsed, err := Dispatch(raw)
		assert.NoError(t, err)
		assert.Equal(t, KindBuy, parsed.Kind)
		assert.Equal(t, uint64(123456), parsed.Buy.Args.BaseAmountOut)
		assert.Equal(t, uint64(700000), parsed.Buy.Args.MaxQuoteAmountIn)
		assert.NotNil(t, parsed.Buy.Event)
		assert.Equal(t, uint64(654000), parsed.Buy.Event.QuoteAmountIn)
		assert.True(t, parsed.Accounts.Has(RoleCoinCreatorVaultAta))
		assert.Equal(t, core.IxRef{TxIndex: 3, IxIndex: 1}, parsed.Context)
	})

	// 旧交易：17 个账户，可选角色绑定占位值；无事件回声时 Event 为 nil
	t.Run("buy legacy accounts no event", func(t *testing.T) {
		raw := &core.RawInstruction{
			Data:     buildIx(Buy, leU64(11, 22)),
			Accounts: mkAccounts(len(swapRoles.required)),
		}
		parsed, err := Dispatch(raw)
		assert.NoError(t, err)
		assert.Equal(t, KindBuy, parsed.Kind)
		assert.Nil(t, parsed.Buy.Event)
		assert.False(t, parsed.Accounts.Has(RoleCoinCreatorVaultAta))
		assert.Equal(t, consts.InvalidAddress, parsed.Accounts.Get(RoleCoinCreatorVaultAuthority))
	})

	t.Run("sell", func(t *testing.T) {
		raw := &core.RawInstruction{
			Data:     buildIx(Sell, leU64(500, 400)),
			Accounts: mkAccounts(swapLen),
		}
		parsed, err := Dispatch(raw)
		assert.NoError(t, err)
		assert.Equal(t, KindSell, parsed.Kind)
		assert.Equal(t, uint64(500), parsed.Sell.Args.BaseAmountIn)
		assert.Equal(t, uint64(400), parsed.Sell.Args.MinQuoteAmountOut)
	})

	// 账户数量低于必选前缀：InsufficientAccounts
	t.Run("insufficient accounts", func(t *testing.T) {
		raw := &core.RawInstruction{
			Data:     buildIx(Buy, leU64(1, 2)),
			Accounts: mkAccounts(10),
		}
		parsed, err := Dispatch(raw)
		assert.Nil(t, parsed)
		de, ok := AsDecodeError(err)
		assert.True(t, ok)
		assert.Equal(t, ErrKindInsufficientAccounts, de.Kind)
	})

	// 已识别指令但参数载荷不足：DataDecodeFailure
	t.Run("truncated args", func(t *testing.T) {
		raw := &core.RawInstruction{
			Data:     buildIx(Buy, leU64(1)), // 只有 8 字节，需要 16
			Accounts: mkAccounts(swapLen),
		}
		parsed, err := Dispatch(raw)
		assert.Nil(t, parsed)
		de, ok := AsDecodeError(err)
		assert.True(t, ok)
		assert.Equal(t, ErrKindDataDecodeFailure, de.Kind)
	})

	t.Run("create pool", func(t *testing.T) {
		payload := append([]byte{0x02, 0x00}, leU64(10, 20)...)
		raw := &core.RawInstruction{
			Data:     buildIx(CreatePool, payload),
			Accounts: mkAccounts(len(createPoolRoles.required)),
		}
		parsed, err := Dispatch(raw)
		assert.NoError(t, err)
		assert.Equal(t, KindCreatePool, parsed.Kind)
		assert.Equal(t, uint16(2), parsed.CreatePool.Index)
	})

	t.Run("deposit and withdraw", func(t *testing.T) {
		accounts := mkAccounts(len(liquidityRoles.required))

		parsed, err := Dispatch(&core.RawInstruction{
			Data:     buildIx(Deposit, leU64(1, 2, 3)),
			Accounts: accounts,
		})
		assert.NoError(t, err)
		assert.Equal(t, KindDeposit, parsed.Kind)
		assert.Equal(t, uint64(1), parsed.Deposit.LpTokenAmountOut)

		parsed, err = Dispatch(&core.RawInstruction{
			Data:     buildIx(Withdraw, leU64(4, 5, 6)),
			Accounts: accounts,
		})
		assert.NoError(t, err)
		assert.Equal(t, KindWithdraw, parsed.Kind)
		assert.Equal(t, uint64(6), parsed.Withdraw.MinQuoteAmountOut)
	})

	// 同区块内单条失败不影响后续指令的解码（错误全部可恢复）
	t.Run("failure is isolated", func(t *testing.T) {
		bad := &core.RawInstruction{Data: []byte{0x01}}
		good := &core.RawInstruction{
			Data:     buildIx(Sell, leU64(7, 8)),
			Accounts: mkAccounts(swapLen),
		}
		_, err := Dispatch(bad)
		assert.Error(t, err)
		parsed, err := Dispatch(good)
		assert.NoError(t, err)
		assert.Equal(t, KindSell, parsed.Kind)
	})
}
