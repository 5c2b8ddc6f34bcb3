package consts

// GrpcAccountInclude 用于 gRPC 区块订阅过滤器。
// 只订阅涉及 PumpSwap AMM 程序的交易，聚合器包装调用也会命中（PumpSwap 以 inner 指令出现）。
var GrpcAccountInclude = []string{
	PumpSwapAMMProgramStr,
}
