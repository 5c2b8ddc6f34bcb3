package pumpswap

// 指令 discriminator（Anchor 8 字节方法 ID，按大端 uint64 存储，与链上程序严格一致，
// 只随上游版本发布同步变更）
const (
	Buy        uint64 = 0x66063d1201daebea
	Sell       uint64 = 0x33e685a4017f83ad
	CreatePool uint64 = 0xe992d18ecf6840bc
	Deposit    uint64 = 0xf223c68952e1f2b6
	Withdraw   uint64 = 0xb712469c946da122

	// AnchorSelfCPILog 是 Anchor 事件日志指令标记：程序通过自调用把事件
	// 写进 inner 指令，其 data 以该标记开头。该标记出现在顶层 data 时，
	// 说明这条“指令”是事件回声，按 Filtered 处理而不是解析失败。
	AnchorSelfCPILog uint64 = 0xe445a52e51cb9a1d
)

// 事件 discriminator（事件命名空间，与指令命名空间相互独立）
var (
	BuyEventDiscriminator  = [8]byte{103, 244, 82, 31, 44, 245, 119, 119}
	SellEventDiscriminator = [8]byte{62, 47, 55, 10, 165, 3, 220, 42}
)

// ixSpec 描述一种已识别指令的解码元信息
type ixSpec struct {
	kind  Kind
	roles roleSpec
}

// instructionTable 是 discriminator → 指令元信息的静态路由表。
// 支持新指令种类只需在此登记并在 Dispatch 的数据解码分支补一条 case，
// 分发算法本身不用动。
var instructionTable = map[uint64]*ixSpec{
	Buy:        {kind: KindBuy, roles: swapRoles},
	Sell:       {kind: KindSell, roles: swapRoles},
	CreatePool: {kind: KindCreatePool, roles: createPoolRoles},
	Deposit:    {kind: KindDeposit, roles: liquidityRoles},
	Withdraw:   {kind: KindWithdraw, roles: liquidityRoles},
}
