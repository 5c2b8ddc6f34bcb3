package pumpswap

import (
	"encoding/binary"

	"pumpswap-indexer-sol/internal/consts"
	"pumpswap-indexer-sol/internal/logger"
	"pumpswap-indexer-sol/internal/logic/core"
)

// DiscriminatorSize Anchor 指令/事件 discriminator 字节数
const DiscriminatorSize = 8

// Kind 已识别的指令种类
type Kind uint8

const (
	KindUnknown Kind = iota
	KindBuy
	KindSell
	KindCreatePool
	KindDeposit
	KindWithdraw
	// KindFiltered 表示这条指令被前置过滤规则排除（事件回声、聚合器包裹等），
	// 不是解码失败，上层照常推进
	KindFiltered
)

var kindNames = map[Kind]string{
	KindUnknown:    "unknown",
	KindBuy:        "buy",
	KindSell:       "sell",
	KindCreatePool: "create_pool",
	KindDeposit:    "deposit",
	KindWithdraw:   "withdraw",
	KindFiltered:   "filtered",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// FilterReason 过滤原因
type FilterReason uint8

const (
	FilterNone FilterReason = iota
	// FilterSelfLog 顶层 data 以 Anchor 自调用日志标记开头
	FilterSelfLog
	// FilterKnownAggregator 父程序是已知聚合器（Jupiter / OKX 等）
	FilterKnownAggregator
)

func (r FilterReason) String() string {
	switch r {
	case FilterSelfLog:
		return "self_log"
	case FilterKnownAggregator:
		return "known_aggregator"
	default:
		return "none"
	}
}

// BuyResult Buy 指令解码结果：参数必有，事件可能缺失
type BuyResult struct {
	Args  BuyArgs
	Event *BuyEvent
}

// SellResult Sell 指令解码结果
type SellResult struct {
	Args  SellArgs
	Event *SellEvent
}

// ParsedInstruction 一条指令的完整解码结果。
// Kind 决定哪个结果字段有效；Filtered 时仅 Filter 有效。
type ParsedInstruction struct {
	Kind     Kind
	Filter   FilterReason
	Accounts AccountRoleSet

	Buy        *BuyResult
	Sell       *SellResult
	CreatePool *CreatePoolArgs
	Deposit    *DepositArgs
	Withdraw   *WithdrawArgs

	// Context 原样透传调用方附带的上下文（如 core.IxRef），解码过程不读取
	Context any
}

// classify 执行前置过滤：自调用日志优先于聚合器判断。
// 返回 FilterNone 表示进入正常解码流程。
// 前提：len(data) >= DiscriminatorSize，由调用方保证。
func classify(raw *core.RawInstruction) FilterReason {
	if binary.BigEndian.Uint64(raw.Data[:DiscriminatorSize]) == AnchorSelfCPILog {
		return FilterSelfLog
	}
	if raw.ParentProgram != nil && consts.IsKnownAggregator(*raw.ParentProgram) {
		return FilterKnownAggregator
	}
	return FilterNone
}

// Dispatch 解码一条已定位到目标程序的指令。
// 返回值三态：(result, nil) 成功（含 Filtered）；(nil, err) 解码失败，
// err 必为 *DecodeError，可用 AsDecodeError 取分类。
func Dispatch(raw *core.RawInstruction) (result *ParsedInstruction, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[PumpSwap:Dispatch] panic recovered: %v", r)
			result = nil
			err = errDataDecode("panic during decode: %v", r)
		}
	}()

	// 长度检查先于一切读取：不足 8 字节一律 TooShort，不猜测截断的 tag
	if len(raw.Data) < DiscriminatorSize {
		return nil, errTooShort(len(raw.Data))
	}

	if reason := classify(raw); reason != FilterNone {
		return &ParsedInstruction{Kind: KindFiltered, Filter: reason, Context: raw.Context}, nil
	}

	tag := binary.BigEndian.Uint64(raw.Data[:DiscriminatorSize])
	spec, ok := instructionTable[tag]
	if !ok {
		return nil, errUnknownInstruction(tag)
	}

	accounts, derr := bindAccounts(raw.Accounts, spec.roles)
	if derr != nil {
		return nil, derr
	}

	payload := raw.Data[DiscriminatorSize:]
	parsed := &ParsedInstruction{Kind: spec.kind, Accounts: accounts, Context: raw.Context}

	switch spec.kind {
	case KindBuy:
		args, ok := DecodePrefix[BuyArgs](payload, BuyArgsSize)
		if !ok {
			return nil, errDataDecode("buy args: %d bytes, need %d", len(payload), BuyArgsSize)
		}
		parsed.Buy = &BuyResult{Args: args}
		if ev, ok := extractEvent[BuyEvent](raw.Inner, BuyEventDiscriminator, BuyEventSize); ok {
			parsed.Buy.Event = &ev
		}
	case KindSell:
		args, ok := DecodePrefix[SellArgs](payload, SellArgsSize)
		if !ok {
			return nil, errDataDecode("sell args: %d bytes, need %d", len(payload), SellArgsSize)
		}
		parsed.Sell = &SellResult{Args: args}
		if ev, ok := extractEvent[SellEvent](raw.Inner, SellEventDiscriminator, SellEventSize); ok {
			parsed.Sell.Event = &ev
		}
	case KindCreatePool:
		args, ok := DecodePrefix[CreatePoolArgs](payload, CreatePoolArgsSize)
		if !ok {
			return nil, errDataDecode("create_pool args: %d bytes, need %d", len(payload), CreatePoolArgsSize)
		}
		parsed.CreatePool = &args
	case KindDeposit:
		args, ok := DecodePrefix[DepositArgs](payload, DepositArgsSize)
		if !ok {
			return nil, errDataDecode("deposit args: %d bytes, need %d", len(payload), DepositArgsSize)
		}
		parsed.Deposit = &args
	case KindWithdraw:
		args, ok := DecodePrefix[WithdrawArgs](payload, WithdrawArgsSize)
		if !ok {
			return nil, errDataDecode("withdraw args: %d bytes, need %d", len(payload), WithdrawArgsSize)
		}
		parsed.Withdraw = &args
	}

	return parsed, nil
}
