package pumpswap

import "fmt"

// ErrorKind 区分解码失败的结构性原因。
// Filtered 不在其中：被过滤是一种正常解析结果（KindFiltered），不是错误。
type ErrorKind uint8

const (
	ErrKindTooShort             ErrorKind = iota + 1 // 数据不足以读取 discriminator
	ErrKindUnknownInstruction                        // discriminator 未登记
	ErrKindInsufficientAccounts                      // 账户数量低于必选前缀
	ErrKindDataDecodeFailure                         // 已识别指令的数据/事件解码失败
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindTooShort:
		return "TooShort"
	case ErrKindUnknownInstruction:
		return "UnknownInstruction"
	case ErrKindInsufficientAccounts:
		return "InsufficientAccounts"
	case ErrKindDataDecodeFailure:
		return "DataDecodeFailure"
	default:
		return "Unknown"
	}
}

// DecodeError 是 Dispatch 的唯一错误类型。所有失败都可恢复：
// 单条指令解码失败不影响同交易/同区块的其他指令。
type DecodeError struct {
	Kind ErrorKind
	msg  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// AsDecodeError 提取 err 中的 *DecodeError，便于调用方按 Kind 分类计数
func AsDecodeError(err error) (*DecodeError, bool) {
	de, ok := err.(*DecodeError)
	return de, ok
}

func errTooShort(got int) *DecodeError {
	return &DecodeError{
		Kind: ErrKindTooShort,
		msg:  fmt.Sprintf("instruction data len=%d, want>=%d", got, DiscriminatorSize),
	}
}

func errUnknownInstruction(tag uint64) *DecodeError {
	return &DecodeError{
		Kind: ErrKindUnknownInstruction,
		msg:  fmt.Sprintf("discriminator 0x%016x not registered", tag),
	}
}

func errInsufficientAccounts(got, want int) *DecodeError {
	return &DecodeError{
		Kind: ErrKindInsufficientAccounts,
		msg:  fmt.Sprintf("accounts len=%d, required prefix=%d", got, want),
	}
}

func errDataDecode(format string, args ...any) *DecodeError {
	return &DecodeError{
		Kind: ErrKindDataDecodeFailure,
		msg:  fmt.Sprintf(format, args...),
	}
}
