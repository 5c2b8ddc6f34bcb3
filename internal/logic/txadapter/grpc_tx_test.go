package txadapter

import (
	"testing"

	"pumpswap-indexer-sol/internal/logic/core"
	"pumpswap-indexer-sol/internal/types"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/stretchr/testify/assert"
)

func pk(b byte) types.Pubkey {
	var p types.Pubkey
	p[0] = b
	return p
}

func TestAdaptGrpcTx(t *testing.T) {
	program := pk(0x50)
	aggregator := pk(0x60)
	signer := pk(0x01)
	acc3, acc4 := pk(0x03), pk(0x04)

	// 账户表：0=signer 1=aggregator 2=program 3/4=业务账户
	accountKeys := [][]byte{
		signer[:], aggregator[:], program[:], acc3[:], acc4[:],
	}

	sig := make([]byte, 64)
	sig[0] = 0xAB

	tx := &pb.SubscribeUpdateTransactionInfo{
		Index:     7,
		Signature: sig,
		Transaction: &pb.Transaction{
			Signatures: [][]byte{sig},
			Message: &pb.Message{
				Header:      &pb.MessageHeader{NumRequiredSignatures: 1},
				AccountKeys: accountKeys,
				Instructions: []*pb.CompiledInstruction{
					// 主指令 0: aggregator 包裹调用
					{ProgramIdIndex: 1, Accounts: []byte{0, 3}, Data: []byte{0x11}},
					// 主指令 1: 直接调用目标程序
					{ProgramIdIndex: 2, Accounts: []byte{0, 3, 4}, Data: []byte{0x22}},
				},
			},
		},
		Meta: &pb.TransactionStatusMeta{
			InnerInstructions: []*pb.InnerInstructions{
				{
					Index: 0,
					Instructions: []*pb.InnerInstruction{
						// aggregator 内部 CPI 到目标程序，随后是事件回声
						{ProgramIdIndex: 2, Accounts: []byte{0, 3}, Data: []byte{0x33}},
						{ProgramIdIndex: 2, Accounts: []byte{0}, Data: []byte{0x44}},
					},
				},
				{
					Index: 1,
					Instructions: []*pb.InnerInstruction{
						{ProgramIdIndex: 2, Accounts: []byte{0}, Data: []byte{0x55}},
					},
				},
			},
		},
	}

	txCtx := &core.TxContext{Slot: 123, BlockTime: 456}
	adapted, err := AdaptGrpcTx(txCtx, tx)
	assert.NoError(t, err)
	assert.Equal(t, uint32(7), adapted.TxIndex)
	assert.Equal(t, sig, adapted.Signature)
	assert.Len(t, adapted.Signers, 1)

	// 展平后：主指令0 + 它的2条inner + 主指令1 + 它的1条inner = 5
	assert.Len(t, adapted.Instructions, 5)
	assert.Equal(t, uint16(0), adapted.Instructions[0].InnerIndex)
	assert.Equal(t, uint16(1), adapted.Instructions[1].InnerIndex)
	assert.Equal(t, uint16(2), adapted.Instructions[2].InnerIndex)
	assert.Equal(t, uint16(1), adapted.Instructions[3].IxIndex)
	assert.Equal(t, program, adapted.Instructions[1].ProgramID)

	t.Run("collect raw instructions", func(t *testing.T) {
		raws := CollectRawInstructions(adapted, program)
		// 命中3条：主指令0名下2条inner（指令+回声）、主指令1本身
		assert.Len(t, raws, 3)

		// inner 指令：父程序为 aggregator，事件回声在 Inner 记录中
		first := raws[0]
		assert.Equal(t, []byte{0x33}, first.Data)
		assert.NotNil(t, first.ParentProgram)
		assert.Equal(t, aggregator, *first.ParentProgram)
		assert.Len(t, first.Inner, 1)
		assert.Equal(t, []byte{0x44}, first.Inner[0].Data)
		assert.Equal(t, core.IxRef{TxIndex: 7, IxIndex: 0, InnerIndex: 1}, first.Context)

		// 事件回声自身也是一条目标程序的 inner 指令，同样被收集（由解码器按 Filtered 归类）
		echo := raws[1]
		assert.Equal(t, []byte{0x44}, echo.Data)
		assert.Equal(t, aggregator, *echo.ParentProgram)

		// 主指令：无父程序，名下 inner 作为 CPI 记录
		main := raws[2]
		assert.Equal(t, []byte{0x22}, main.Data)
		assert.Nil(t, main.ParentProgram)
		assert.Len(t, main.Inner, 1)
		assert.Equal(t, []byte{0x55}, main.Inner[0].Data)
		assert.Equal(t, core.IxRef{TxIndex: 7, IxIndex: 1, InnerIndex: 0}, main.Context)
	})

	t.Run("no matching program", func(t *testing.T) {
		raws := CollectRawInstructions(adapted, pk(0x99))
		assert.Empty(t, raws)
	})
}

func TestAdaptGrpcTxInvalid(t *testing.T) {
	// 账户表中混入长度异常的 pubkey
	tx := &pb.SubscribeUpdateTransactionInfo{
		Transaction: &pb.Transaction{
			Signatures: [][]byte{make([]byte, 64)},
			Message: &pb.Message{
				Header:      &pb.MessageHeader{NumRequiredSignatures: 1},
				AccountKeys: [][]byte{{0x01, 0x02}},
			},
		},
		Meta: &pb.TransactionStatusMeta{},
	}
	_, err := AdaptGrpcTx(&core.TxContext{}, tx)
	assert.Error(t, err)
}
