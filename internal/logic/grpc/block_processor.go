package grpc

import (
	"context"
	"errors"
	"time"

	"pumpswap-indexer-sol/internal/consts"
	"pumpswap-indexer-sol/internal/logic/core"
	"pumpswap-indexer-sol/internal/logic/parser"
	"pumpswap-indexer-sol/internal/logic/pumpswap"
	"pumpswap-indexer-sol/internal/logic/txadapter"
	"pumpswap-indexer-sol/internal/mq"
	"pumpswap-indexer-sol/internal/svc"
	"pumpswap-indexer-sol/internal/types"
	"pumpswap-indexer-sol/internal/utils"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/zeromicro/go-zero/core/logx"
)

// BlockProcessor 消费 blockChan，驱动单个区块的完整处理链路：
// 校验交易 → 收集目标程序指令 → 解码 → 投影导出 → Kafka 发送 → 进度标记。
type BlockProcessor struct {
	sc        *svc.GrpcServiceContext
	blockChan chan *pb.SubscribeUpdateBlock
	checker   *SlotChecker
	lastSlot  uint64 // 最近一次处理的 slot，用于缺口检测
	ctx       context.Context
	cancel    func(err error)
	logx.Logger
}

// parseStats 汇总一个交易内所有目标指令的解码结果分类
type parseStats struct {
	parsed   int // 成功解码（产出业务结果）
	filtered int // 被过滤（事件回声、聚合器包裹）
	failed   int // 解码失败（DecodeError 各类）
}

type ParsedTxResult struct {
	txIndex int
	events  []*core.Event
	stats   parseStats
}

func NewBlockProcessor(sc *svc.GrpcServiceContext, blockChan chan *pb.SubscribeUpdateBlock, checker *SlotChecker) *BlockProcessor {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &BlockProcessor{
		sc:        sc,
		blockChan: blockChan,
		checker:   checker,
		Logger:    logx.WithContext(ctx).WithFields(logx.Field("service", "block_processor")),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (p *BlockProcessor) Start() {
	for {
		select {
		case <-p.ctx.Done():
			return // 退出
		case block := <-p.blockChan:
			p.procBlock(block)
			if len(p.blockChan) > 10 {
				p.Debugf("block chan len:%v", len(p.blockChan))
			}
		}
	}
}

func (p *BlockProcessor) Stop() {
	p.cancel(errors.New("service stop"))
}

func (p *BlockProcessor) procBlock(block *pb.SubscribeUpdateBlock) {
	startTime := time.Now()
	defer func() {
		p.Infof("区块处理总耗时: %v, slot: %d", time.Since(startTime), block.Slot)
	}()

	// 0. 幂等抢占：同一 slot 只处理一次（多实例部署时防重复）
	ok, err := p.sc.Progress.TryMarkSlotPending(p.ctx, block.Slot)
	if err != nil {
		p.Errorf("[BlockProcessor] slot %d 幂等标记失败, 继续处理: %v", block.Slot, err)
	} else if !ok {
		p.Infof("[BlockProcessor] slot %d 已被处理, 跳过", block.Slot)
		return
	}

	// slot 缺口检测：交给 SlotChecker 核对缺的是空块还是漏扫
	if p.checker != nil && p.lastSlot > 0 && block.Slot > p.lastSlot+1 {
		p.checker.Submit(p.lastSlot+1, block.Slot-1)
	}
	p.lastSlot = block.Slot

	// 1. 过滤合法交易
	validTxs := make([]*pb.SubscribeUpdateTransactionInfo, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		if parser.ValidateGrpcTx(tx) == nil {
			validTxs = append(validTxs, tx)
		}
	}

	// 2. 构造上下文
	txCtx := p.buildTxContext(block)

	// 3. 并发解码所有目标指令
	parseStart := time.Now()
	results := utils.ParallelMap(validTxs, consts.CpuCount+2,
		func(tx *pb.SubscribeUpdateTransactionInfo) ParsedTxResult {
			return p.parseTx(txCtx, tx)
		})
	p.Infof("事件解析耗时: %v", time.Since(parseStart))

	var stats parseStats
	totalLen := 0
	for _, result := range results {
		totalLen += len(result.events)
		stats.parsed += result.stats.parsed
		stats.filtered += result.stats.filtered
		stats.failed += result.stats.failed
	}
	p.Infof("总tx数量: %v, 有效tx数量: %v, 解码成功: %v, 过滤: %v, 失败: %v, 事件数量: %v",
		len(block.Transactions), len(validTxs), stats.parsed, stats.filtered, stats.failed, totalLen)

	events := make([]*core.Event, 0, totalLen)
	for _, result := range results {
		events = append(events, result.events...)
	}

	// 4. 发送到 Kafka 并标记进度
	p.dispatchBlock(block.Slot, events)
}

// dispatchBlock 把区块事件发送到 Kafka，全部成功后标记 slot 已处理。
// 发送失败保留 Pending 状态，由漏扫核对与回补兜底。
func (p *BlockProcessor) dispatchBlock(slot uint64, events []*core.Event) {
	kafkaConf := p.sc.Config.KafkaProducerConf
	jobs := mq.BuildTradeKafkaJobs(kafkaConf.Topics.Trade, kafkaConf.Partitions.Trade, events)

	if len(jobs) > 0 {
		dispatchTimeout := time.Duration(p.sc.Config.TimeConf.SlotDispatchTimeoutMs) * time.Millisecond
		sendTimeout := time.Duration(p.sc.Config.TimeConf.EventSendTimeoutMs) * time.Millisecond

		ctx, cancel := context.WithTimeout(p.ctx, dispatchTimeout)
		defer cancel()

		okJobs, failed := mq.SendKafkaJobs(ctx, p.sc.Producer, jobs, sendTimeout)
		if len(failed) > 0 {
			p.Errorf("[BlockProcessor] slot %d Kafka 发送失败 %d/%d 条: %v",
				slot, len(failed), len(jobs), failed[0].Err)
			return
		}
		p.Debugf("[BlockProcessor] slot %d 发送完成, jobs=%d", slot, len(okJobs))
	}

	if err := p.sc.Progress.MarkSlotProcessed(p.ctx, slot); err != nil {
		p.Errorf("[BlockProcessor] slot %d 进度标记失败: %v", slot, err)
	}
}

// parseTx 处理单个交易：适配结构 → 收集目标程序指令 → 逐条解码并投影
func (p *BlockProcessor) parseTx(txCtx *core.TxContext, tx *pb.SubscribeUpdateTransactionInfo) ParsedTxResult {
	result := ParsedTxResult{txIndex: int(tx.Index)}

	adaptedTx, err := txadapter.AdaptGrpcTx(txCtx, tx)
	if err != nil {
		p.Errorf("[BlockProcessor] 交易适配失败: slot=%d, txIndex=%d, err=%v", txCtx.Slot, tx.Index, err)
		return result
	}

	raws := txadapter.CollectRawInstructions(adaptedTx, consts.PumpSwapAMMProgram)
	for _, raw := range raws {
		parsed, err := pumpswap.Dispatch(raw)
		if err != nil {
			result.stats.failed++
			if de, ok := pumpswap.AsDecodeError(err); ok && de.Kind == pumpswap.ErrKindUnknownInstruction {
				// 未登记指令种类属常态（admin 类指令），debug 级别即可
				p.Debugf("[BlockProcessor] slot=%d txIndex=%d: %v", txCtx.Slot, tx.Index, err)
			} else {
				p.Errorf("[BlockProcessor] 指令解码失败: slot=%d, txIndex=%d, err=%v", txCtx.Slot, tx.Index, err)
			}
			continue
		}
		if parsed.Kind == pumpswap.KindFiltered {
			result.stats.filtered++
			continue
		}
		result.stats.parsed++

		ref, _ := parsed.Context.(core.IxRef)
		trade := parsed.TradeEvent(txCtx, adaptedTx.Signature, ref)
		if trade == nil {
			continue // CreatePool / Deposit / Withdraw 暂不导出
		}
		result.events = append(result.events, &core.Event{
			ID:        trade.EventId,
			EventType: trade.Type,
			Key:       trade.Pool, // 按池子地址分区，保证同池有序
			Trade:     trade,
		})
	}
	return result
}

func (p *BlockProcessor) buildTxContext(block *pb.SubscribeUpdateBlock) *core.TxContext {
	// 尝试解析 blockHash，如果失败只打日志但继续执行
	blockHash, err := types.HashFromBase58(block.Blockhash)
	if err != nil {
		logx.Errorf("[严重] BlockHash 无法解析，将使用零值：slot=%d, blockhash=%s, err=%v",
			block.Slot, block.Blockhash, err)
	}

	return &core.TxContext{
		BlockTime:   block.BlockTime.Timestamp,
		Slot:        block.Slot,
		ParentSlot:  block.ParentSlot,
		BlockHeight: block.BlockHeight.GetBlockHeight(),
		BlockHash:   blockHash, // 若解析失败为零值
	}
}
