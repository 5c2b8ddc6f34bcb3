package core

import (
	"pumpswap-indexer-sol/internal/types"
)

// TxContext 表示交易所属区块的上下文信息。
type TxContext struct {
	BlockTime   int64      // 区块时间戳（Unix 秒）
	Slot        uint64     // 当前 Slot（Solana 高度单位）
	ParentSlot  uint64     // 父 Slot（用于分叉检测和回滚）
	BlockHeight uint64     // 区块高度（辅助比对）
	BlockHash   types.Hash // 区块哈希（辅助去重与 fork 检测）
}

// AdaptedInstruction 表示一条主指令或 inner 指令，来源于 message.instructions 或 innerInstructions。
// 所有指令在预处理阶段已展平，并补充了位置信息（IxIndex、InnerIndex），以支持顺序遍历与事件定位。
type AdaptedInstruction struct {
	IxIndex    uint16         // 主指令索引（从 0 开始）
	InnerIndex uint16         // Inner 指令在主指令中的序号，主指令本身为 0，CPI 调用从 1 开始
	ProgramID  types.Pubkey   // 指令对应的程序 ID
	Accounts   []types.Pubkey // 指令涉及的账户列表，保持原始顺序
	Data       []byte         // 指令原始数据
}

// InnerRecord 表示某条指令名下的一次 CPI 记录，按链上发出顺序排列。
// 解码器只关心 Data；ProgramID 保留用于日志与排查。
type InnerRecord struct {
	ProgramID types.Pubkey
	Data      []byte
}

// RawInstruction 是解码器的完整输入：一条指令的数据、账户、CPI 记录与来源信息。
// 解码器在单次调用期间只读借用该结构，不持有、不修改。
type RawInstruction struct {
	Data     []byte         // 指令原始字节（前 8 字节为 Anchor discriminator）
	Accounts []types.Pubkey // 按位置排列的账户引用
	Inner    []InnerRecord  // 该指令名下的 CPI 记录，按发出顺序排列

	// ParentProgram 指向调用方程序：主指令为 nil，inner 指令为其所属主指令的程序。
	ParentProgram *types.Pubkey

	// Context 是调用方自带的定位令牌（如批次内位置），解码器原样透传、从不解读。
	Context any
}

// IxRef 是本服务作为调用方使用的 Context 令牌：事件在区块内的坐标。
// 对解码器而言不透明，仅用于回填 event_id。
type IxRef struct {
	TxIndex    uint32
	IxIndex    uint16
	InnerIndex uint16
}

// AdaptedTx 表示已解析的链上交易结构，是指令收集流程的核心输入。
type AdaptedTx struct {
	TxCtx     *TxContext // 所属区块上下文
	TxIndex   uint32     // 当前交易在区块中的序号
	Signature []byte     // 交易签名（64 字节原始数据）
	Signers   [][]byte   // 交易签名者列表

	// Instructions 表示交易中的所有指令（主指令和 inner 指令），已按 Solana 执行顺序展平。
	Instructions []*AdaptedInstruction
}
