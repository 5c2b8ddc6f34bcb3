package consts

import "pumpswap-indexer-sol/internal/types"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	// Programs
	SystemProgramStr          = "11111111111111111111111111111111"
	TokenProgramStr           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	TokenProgram2022Str       = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
	AssociatedTokenProgramStr = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	ComputeBudgetProgramStr   = "ComputeBudget111111111111111111111111111111"

	// 常用报价币
	WSOLMintStr = "So11111111111111111111111111111111111111112"
	USDCMintStr = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

	// DEX: Pump.fun AMM（PumpSwap）
	PumpSwapAMMProgramStr = "pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA"

	// 聚合器 Program：这些程序包装的 swap 由聚合器侧统计，解码时按 Filtered 跳过，避免重复计数
	JupiterV6ProgramStr = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	JupiterV4ProgramStr = "JUP4Fb2cqiRUcaTHdrPC8h2gNsA2ETXiPDD33WcGuJB"
	OkxDexRouterStr     = "6m2CDdhRgxpH4WjvdzxAYbGxwdGUz5MziiL5jek2kBma"
)

var (
	// 特殊语义地址
	NativeSOLMint  = types.Pubkey{} // 原生 SOL（非 SPL）
	InvalidAddress = types.Pubkey{ // 表示无效/缺省地址（全 0xFF），可选账户缺失时的占位值
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	}

	// Programs
	SystemProgram          = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram           = types.PubkeyFromBase58(TokenProgramStr)
	TokenProgram2022       = types.PubkeyFromBase58(TokenProgram2022Str)
	AssociatedTokenProgram = types.PubkeyFromBase58(AssociatedTokenProgramStr)

	WSOLMint = types.PubkeyFromBase58(WSOLMintStr)
	USDCMint = types.PubkeyFromBase58(USDCMintStr)

	// DEX Program
	PumpSwapAMMProgram = types.PubkeyFromBase58(PumpSwapAMMProgramStr)

	// 聚合器 Program 白名单
	JupiterV6Program = types.PubkeyFromBase58(JupiterV6ProgramStr)
	JupiterV4Program = types.PubkeyFromBase58(JupiterV4ProgramStr)
	OkxDexRouter     = types.PubkeyFromBase58(OkxDexRouterStr)

	knownAggregators = []types.Pubkey{
		JupiterV6Program,
		JupiterV4Program,
		OkxDexRouter,
	}
)

// IsKnownAggregator 判断某 Program 是否属于聚合器白名单。
// 单笔指令只查一次，线性扫描比 map 更快（列表极短）。
func IsKnownAggregator(p types.Pubkey) bool {
	for _, agg := range knownAggregators {
		if p == agg {
			return true
		}
	}
	return false
}
