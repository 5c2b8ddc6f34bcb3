package txadapter

import (
	"fmt"

	"pumpswap-indexer-sol/internal/logic/core"
	"pumpswap-indexer-sol/internal/types"
	"pumpswap-indexer-sol/internal/utils"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

// buildFullAccountKeys 构造交易中完整的账户 Pubkey 列表。
// 拼接 message.accountKeys 与 Address Lookup Table 中的 writable / readonly 地址，
// 供后续通过 accountIndex 高效索引使用。
//
// 性能设计：
//   - 一次性预分配切片，避免 append 扩容；
//   - 顺序写入 + copy，有助于 CPU cache 命中；
func buildFullAccountKeys(
	accountKeys, loadedWritable, loadedReadonly [][]byte,
) ([]types.Pubkey, error) {
	// 计算总账户数，确保分配空间恰好
	total := len(accountKeys) + len(loadedWritable) + len(loadedReadonly)
	pubkeys := make([]types.Pubkey, total)

	i := 0 // 写入索引

	// 主账户部分（来自 message.accountKeys）
	for _, b := range accountKeys {
		if len(b) != 32 {
			return nil, fmt.Errorf("invalid pubkey in accountKeys at index %d", i)
		}
		copy(pubkeys[i][:], b)
		i++
	}

	// Address Table 中的 writable 部分
	for _, b := range loadedWritable {
		if len(b) != 32 {
			return nil, fmt.Errorf("invalid pubkey in loadedWritable at index %d", i)
		}
		copy(pubkeys[i][:], b)
		i++
	}

	// Address Table 中的 readonly 部分
	for _, b := range loadedReadonly {
		if len(b) != 32 {
			return nil, fmt.Errorf("invalid pubkey in loadedReadonly at index %d", i)
		}
		copy(pubkeys[i][:], b)
		i++
	}
	return pubkeys, nil
}

// buildAdaptedInstructions 扁平化解析主指令与 inner 指令，输出统一结构。
// 每条主指令与其 inner 指令将展开为多条 AdaptedInstruction：
//   - IxIndex：主指令索引；
//   - InnerIndex：0 表示主指令，1及以上表示对应的 inner 指令序号。
func buildAdaptedInstructions(
	tx *pb.SubscribeUpdateTransactionInfo,
	accountKeys []types.Pubkey,
) []*core.AdaptedInstruction {
	rawInstructions := tx.Transaction.Message.Instructions
	rawInners := tx.Meta.InnerInstructions

	// 预分配容量：假设每条主指令平均含有 2 条 inner 指令，最低保留 32 条，避免切片动态扩容
	instructions := make([]*core.AdaptedInstruction, 0, utils.Max(len(rawInstructions)*2, 32))
	innerIndex := 0

	for i, inst := range rawInstructions {
		// 解析主指令，标记 InnerIndex = 0
		accounts := make([]types.Pubkey, 0, len(inst.Accounts))
		for _, idx := range inst.Accounts {
			accounts = append(accounts, accountKeys[idx])
		}
		instructions = append(instructions, &core.AdaptedInstruction{
			IxIndex:    uint16(i),
			InnerIndex: 0,
			ProgramID:  accountKeys[inst.ProgramIdIndex],
			Accounts:   accounts,
			Data:       inst.Data,
		})

		// 解析 inner 指令（如存在），InnerIndex 从1开始递增
		// 注意：Solana 标准中，每个主指令最多对应一个 inner 指令块，
		// 且 inner 列表按主指令索引（Index）递增排列，因此此处采用顺序匹配，无需 map 或多次扫描。
		if innerIndex < len(rawInners) && int(rawInners[innerIndex].Index) == i {
			for j, inner := range rawInners[innerIndex].Instructions {
				innerAccounts := make([]types.Pubkey, 0, len(inner.Accounts))
				for _, idx := range inner.Accounts {
					innerAccounts = append(innerAccounts, accountKeys[idx])
				}
				instructions = append(instructions, &core.AdaptedInstruction{
					IxIndex:    uint16(i),
					InnerIndex: uint16(j + 1), // InnerIndex从1开始递增
					ProgramID:  accountKeys[inner.ProgramIdIndex],
					Accounts:   innerAccounts,
					Data:       inner.Data,
				})
			}
			innerIndex++
		}
	}

	return instructions
}

// AdaptGrpcTx 将 gRPC 推送的交易数据解析为内部 AdaptedTx 结构。
// 完整流程：
//  1. 构建 accountKeys（含 Address Lookup）；
//  2. 构建指令（主 + inner）；
//  3. 返回 AdaptedTx；如 panic 会被 recover。
func AdaptGrpcTx(txCtx *core.TxContext, tx *pb.SubscribeUpdateTransactionInfo) (_ *core.AdaptedTx, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("AdaptGrpcTx panic: %v", r)
		}
	}()

	// 构造完整的账户 pubkey 列表（主账户 + Address Lookup 表中的 writable 和 readonly）
	accountKeys, err := buildFullAccountKeys(
		tx.Transaction.Message.AccountKeys,
		tx.Meta.LoadedWritableAddresses,
		tx.Meta.LoadedReadonlyAddresses,
	)
	if err != nil {
		return nil, fmt.Errorf("buildFullAccountKeys error: %w", err)
	}

	// 基本健壮性校验：签名或账户列表为空时立即报错
	if len(tx.Transaction.Signatures) == 0 || len(accountKeys) == 0 {
		return nil, fmt.Errorf("invalid transaction: missing signature or accountKeys")
	}

	// 获取 signer 数量（前 N 个 accountKeys 视为 signer）
	signerCount := int(tx.Transaction.Message.Header.NumRequiredSignatures)
	if signerCount == 0 || len(accountKeys) < signerCount {
		return nil, fmt.Errorf("invalid signer count: %d", signerCount)
	}

	// 解析主指令和 inner 指令
	instructions := buildAdaptedInstructions(tx, accountKeys)

	// 构造签名者列表：Solana 中交易前 N 个账户即为 signer
	signers := make([][]byte, signerCount)
	for i := 0; i < signerCount; i++ {
		signers[i] = accountKeys[i][:]
	}

	// 组装最终结构体
	return &core.AdaptedTx{
		TxCtx:        txCtx,
		TxIndex:      uint32(tx.Index),
		Signature:    tx.Transaction.Signatures[0],
		Signers:      signers,
		Instructions: instructions,
	}, nil
}

// CollectRawInstructions 从展平的指令序列中挑出目标程序的指令，组装为解码器输入。
//
// 两类命中：
//   - 主指令（InnerIndex == 0）ProgramID 为目标程序：ParentProgram 为 nil，
//     其名下全部 inner 指令作为 CPI 记录附带（事件回声在其中）；
//   - inner 指令 ProgramID 为目标程序：ParentProgram 指向所属主指令的程序，
//     CPI 记录取该 inner 指令之后、同一主指令名下的后续 inner 指令
//     （程序写出的事件回声总在其调用之后）。
//
// Context 填充 core.IxRef，解码结果据此回填 event_id。
func CollectRawInstructions(tx *core.AdaptedTx, program types.Pubkey) []*core.RawInstruction {
	var raws []*core.RawInstruction

	for i, inst := range tx.Instructions {
		if inst.ProgramID != program {
			continue
		}

		ref := core.IxRef{
			TxIndex:    tx.TxIndex,
			IxIndex:    inst.IxIndex,
			InnerIndex: inst.InnerIndex,
		}

		raw := &core.RawInstruction{
			Data:     inst.Data,
			Accounts: inst.Accounts,
			Context:  ref,
		}

		if inst.InnerIndex > 0 {
			// inner 指令：父程序 = 所属主指令的程序
			if parent := findParentProgram(tx.Instructions, inst.IxIndex); parent != nil {
				raw.ParentProgram = parent
			}
		}

		// 同一主指令名下、位置在本指令之后的 inner 指令作为 CPI 记录
		for j := i + 1; j < len(tx.Instructions); j++ {
			next := tx.Instructions[j]
			if next.IxIndex != inst.IxIndex {
				break
			}
			raw.Inner = append(raw.Inner, core.InnerRecord{
				ProgramID: next.ProgramID,
				Data:      next.Data,
			})
		}

		raws = append(raws, raw)
	}

	return raws
}

// findParentProgram 返回 ixIndex 对应主指令的程序 ID；找不到时返回 nil。
func findParentProgram(instructions []*core.AdaptedInstruction, ixIndex uint16) *types.Pubkey {
	for _, inst := range instructions {
		if inst.IxIndex == ixIndex && inst.InnerIndex == 0 {
			p := inst.ProgramID
			return &p
		}
	}
	return nil
}
