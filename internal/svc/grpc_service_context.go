package svc

import (
	"pumpswap-indexer-sol/internal/config"
	"pumpswap-indexer-sol/internal/logger"
	"pumpswap-indexer-sol/internal/logic/progress"
	"pumpswap-indexer-sol/internal/mq"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/redis/go-redis/v9"
)

// GrpcServiceContext 包含GRPC服务资源
type GrpcServiceContext struct {
	Config   config.GrpcConfig
	Producer *kafka.Producer
	Redis    *redis.Client
	Progress *progress.RedisProgressStore
}

// NewGrpcServiceContext 创建一个新的 GRPC 服务上下文
func NewGrpcServiceContext(c config.GrpcConfig) (*GrpcServiceContext, error) {
	// 1. 初始化 Kafka 生产者
	producer, err := mq.NewKafkaProducer(c.KafkaProducerConf)
	if err != nil {
		logger.Errorf("Kafka producer 初始化失败: %v", err)
		return nil, err
	}

	// 2. 初始化 Redis 客户端（slot 状态缓存）
	rdb := redis.NewClient(&redis.Options{
		Addr: c.RedisAddr, // eg: "127.0.0.1:6379"
	})

	ctx := &GrpcServiceContext{
		Config:   c,
		Producer: producer,
		Redis:    rdb,
		Progress: progress.NewRedisProgressStore(rdb),
	}

	logger.Infof("GRPC 服务上下文初始化完成")
	return ctx, nil
}

// Close 关闭服务上下文中的资源
func (ctx *GrpcServiceContext) Close() {
	if ctx.Producer != nil {
		ctx.Producer.Close()
	}
	if ctx.Redis != nil {
		_ = ctx.Redis.Close()
	}
}
