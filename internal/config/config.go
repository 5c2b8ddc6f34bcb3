package config

import (
	"pumpswap-indexer-sol/internal/logger"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// KafkaProducerConfig 表示 Kafka 生产者相关配置
type KafkaProducerConfig struct {
	Brokers   string `yaml:"brokers"`    // Kafka broker 地址，多个用英文逗号分隔
	BatchSize int    `yaml:"batch_size"` // 批处理大小（单位字节）
	LingerMs  int    `yaml:"linger_ms"`  // 批处理最大延迟（毫秒）

	Topics struct {
		Trade string `yaml:"trade"` // 交易事件的 Kafka topic
	} `yaml:"topics"`

	Partitions struct {
		Trade int `yaml:"trade"` // trade topic 的分区数
	} `yaml:"partitions"`
}

// TimeConfig 表示各种超时配置（单位：毫秒）
type TimeConfig struct {
	SlotDispatchTimeoutMs int `yaml:"slot_dispatch_timeout_ms"` // 每个 slot 的处理最大耗时（Kafka + Redis）
	EventSendTimeoutMs    int `yaml:"event_send_timeout_ms"`    // 单条事件发送到 Kafka 并等待 ack 的超时时间
}

// GrpcConfig 是主配置结构体，用于驱动索引器服务
type GrpcConfig struct {
	LogConf           LogConfig           `yaml:"logger"`         // 日志配置
	KafkaProducerConf KafkaProducerConfig `yaml:"kafka_producer"` // Kafka 生产者配置
	TimeConf          TimeConfig          `yaml:"time_conf"`      // 时间相关配置

	RedisAddr   string `yaml:"redis_addr"`   // Redis 地址（slot 状态缓存）
	RpcEndpoint string `yaml:"rpc_endpoint"` // Solana RPC 地址（空块核对）

	// gRPC 客户端连接相关配置
	Grpc struct {
		Endpoint string `yaml:"endpoint"` // gRPC 服务端地址
		XToken   string `yaml:"x_token"`  // x-token 认证

		// 应用级逻辑心跳（ping）配置
		StreamPingIntervalSec int `yaml:"stream_ping_interval_sec"` // 应用层 ping 心跳间隔（秒）

		// gRPC Keepalive 底层连接检测配置
		KeepalivePingIntervalSec int `yaml:"keepalive_ping_interval_sec"` // 底层 keepalive 间隔（秒）
		KeepalivePingTimeoutSec  int `yaml:"keepalive_ping_timeout_sec"`  // 底层 keepalive 超时（秒）

		// gRPC 窗口大小调优（用于大数据流推送）
		InitialWindowSize     int `yaml:"initial_window_size"`      // 单流窗口大小（字节）
		InitialConnWindowSize int `yaml:"initial_conn_window_size"` // 整体连接窗口大小（字节）

		// 消息体大小限制
		MaxCallSendMsgSize int `yaml:"max_call_send_msg_size"` // 单条消息最大发送字节数
		MaxCallRecvMsgSize int `yaml:"max_call_recv_msg_size"` // 单条消息最大接收字节数

		// 超时与重连策略
		ReconnectIntervalSec int `yaml:"reconnect_interval_sec"` // 重连最小间隔（秒）
		ConnectTimeoutSec    int `yaml:"connect_timeout_sec"`    // 连接建立超时（秒）
		SendTimeoutSec       int `yaml:"send_timeout_sec"`       // 发送超时（秒）
		RecvTimeoutSec       int `yaml:"recv_timeout_sec"`       // 接收超时（秒）
		BlockRecvTimeoutSec  int `yaml:"block_recv_timeout_sec"` // 超过该时长未收到 block 则触发重连（秒）
	} `yaml:"grpc"`
}
