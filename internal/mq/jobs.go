package mq

import (
	"pumpswap-indexer-sol/internal/logic/core"
	"pumpswap-indexer-sol/internal/utils"
)

// BuildTradeKafkaJobs 把一个区块内的交易事件封装为 KafkaJob 列表。
// 分区按事件 Key（池子地址）哈希选择，保证同一池子的事件分区内有序；
// 消息体为 4 字节事件类型前缀 + proto 线格式事件体。
func BuildTradeKafkaJobs(topic string, partitions int, events []*core.Event) []*KafkaJob {
	if len(events) == 0 {
		return nil
	}
	if partitions <= 0 {
		partitions = 1
	}

	jobs := make([]*KafkaJob, 0, len(events))
	for _, evt := range events {
		jobs = append(jobs, &KafkaJob{
			Topic:     topic,
			Partition: int32(utils.PartitionHashBytes(evt.Key, uint32(partitions))),
			Value:     utils.EncodeEvent(evt.EventType, evt.Trade.Marshal()),
		})
	}
	return jobs
}
