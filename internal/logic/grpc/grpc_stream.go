package grpc

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"pumpswap-indexer-sol/internal/consts"
	"pumpswap-indexer-sol/internal/logger"
	"pumpswap-indexer-sol/internal/svc"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
)

// GrpcStreamManager 维护到 Geyser 服务端的订阅流：建连、心跳、断线重连。
// 收到的区块经 blockChan 交给 BlockProcessor，本身不做任何解析。
type GrpcStreamManager struct {
	mu                    sync.Mutex
	conn                  *grpc.ClientConn
	client                pb.GeyserClient
	stream                pb.Geyser_SubscribeClient
	stopped               bool
	reconnectAttempts     int
	reconnectInterval     time.Duration
	xToken                string
	streamPingIntervalSec int
	blockChan             chan *pb.SubscribeUpdateBlock
	connCtx               context.Context
	connCancel            context.CancelFunc
	blockRecvTimeoutSec   int
	sendTimeoutSec        int
}

func NewGrpcStreamManager(sc *svc.GrpcServiceContext, blockChan chan *pb.SubscribeUpdateBlock) (*GrpcStreamManager, error) {
	grpcConf := sc.Config.Grpc

	configTls := &tls.Config{
		InsecureSkipVerify: true,
	}

	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(grpcConf.ConnectTimeoutSec)*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(
		dialCtx,
		grpcConf.Endpoint,
		grpc.WithTransportCredentials(credentials.NewTLS(configTls)),
		grpc.WithInitialWindowSize(int32(grpcConf.InitialWindowSize)),
		grpc.WithInitialConnWindowSize(int32(grpcConf.InitialConnWindowSize)),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallSendMsgSize(grpcConf.MaxCallSendMsgSize),
			grpc.MaxCallRecvMsgSize(grpcConf.MaxCallRecvMsgSize),
		),
		grpc.WithBlock(),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                time.Duration(grpcConf.KeepalivePingIntervalSec) * time.Second,
			Timeout:             time.Duration(grpcConf.KeepalivePingTimeoutSec) * time.Second,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %v", err)
	}

	return &GrpcStreamManager{
		conn:                  conn,
		client:                pb.NewGeyserClient(conn),
		reconnectAttempts:     0,
		reconnectInterval:     time.Duration(grpcConf.ReconnectIntervalSec) * time.Second,
		xToken:                grpcConf.XToken,
		streamPingIntervalSec: grpcConf.StreamPingIntervalSec,
		blockChan:             blockChan,
		blockRecvTimeoutSec:   grpcConf.BlockRecvTimeoutSec,
		sendTimeoutSec:        grpcConf.SendTimeoutSec,
	}, nil
}

func (m *GrpcStreamManager) Start() {
	m.mustConnect()
}

func (m *GrpcStreamManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true
	if m.connCancel != nil {
		m.connCancel()
		m.connCancel = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
	}
}

// 内部循环直到连接成功
func (m *GrpcStreamManager) mustConnect() {
	for {
		m.mu.Lock()
		if m.stopped {
			m.mu.Unlock()
			return
		}
		m.mu.Unlock()

		if m.reconnectAttempts > 0 {
			if m.reconnectAttempts > 3 {
				time.Sleep(m.reconnectInterval * 2)
			} else {
				time.Sleep(m.reconnectInterval)
			}
		}
		logger.Infof("[GrpcStream] connecting... attempt %d", m.reconnectAttempts+1)
		m.reconnectAttempts++
		err := m.connect()
		if err == nil {
			return // 连接成功
		}
		logger.Warnf("[GrpcStream] connect failed: %v, will retry...", err)
	}
}

// buildSubscribeRequest 构造订阅请求：只要包含目标程序的区块交易
func buildSubscribeRequest() *pb.SubscribeRequest {
	blocks := make(map[string]*pb.SubscribeRequestFilterBlocks)
	blocks["blocks"] = &pb.SubscribeRequestFilterBlocks{
		AccountInclude:      consts.GrpcAccountInclude,
		IncludeTransactions: boolPtr(true),
		IncludeAccounts:     boolPtr(false), // 不需要账户余额变化的单独 AccountUpdate
		IncludeEntries:      boolPtr(false), // entries 是底层日志，业务用不到
	}
	commitment := pb.CommitmentLevel_CONFIRMED
	return &pb.SubscribeRequest{
		Blocks:     blocks,
		Commitment: &commitment,
	}
}

// connect 只尝试一次连接
func (m *GrpcStreamManager) connect() error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return errors.New("manager is stopped")
	}
	defer m.mu.Unlock()

	// 先关闭旧的 context，优雅退出旧 goroutine
	if m.connCancel != nil {
		m.connCancel()
		m.connCancel = nil
	}
	m.connCtx, m.connCancel = context.WithCancel(context.Background())

	metaCtx := metadata.NewOutgoingContext(
		m.connCtx,
		metadata.New(map[string]string{"x-token": m.xToken}),
	)
	stream, err := m.client.Subscribe(metaCtx)
	if err != nil {
		logger.Warnf("[GrpcStream] failed to subscribe: %v", err)
		return err
	}

	req := buildSubscribeRequest()
	err = sendWithTimeout(m.connCtx, stream.Send, req, time.Duration(m.sendTimeoutSec)*time.Second)
	if err != nil {
		logger.Warnf("[GrpcStream] failed to send request: %v", err)
		return err
	}

	m.stream = stream
	m.reconnectAttempts = 0
	logger.Infof("[GrpcStream] connection established")

	// 启动 ping 协程
	go m.pingLoop(m.connCtx)
	// 启动 block 监听协程
	go m.blockRecvLoop(m.connCtx)

	return nil
}

func (m *GrpcStreamManager) blockRecvLoop(ctx context.Context) {
	last := time.Now()
	blockTimeout := time.Duration(m.blockRecvTimeoutSec) * time.Second
	for {
		select {
		case <-ctx.Done():
			return // 优雅退出
		default:
			update, err := m.stream.Recv()
			now := time.Now()
			if err != nil {
				if errors.Is(err, io.EOF) {
					logger.Warnf("[GrpcStream] stream closed by server (EOF), will reconnect")
					m.reconnect()
					return
				}

				logger.Warnf("[GrpcStream] stream error: %v", err)
				if m.reconnectIfBlockTimeout(last, blockTimeout) {
					return
				}
				time.Sleep(100 * time.Millisecond)
				continue
			}

			switch u := update.GetUpdateOneof().(type) {
			case *pb.SubscribeUpdate_Block:
				logger.Debugf("[GrpcStream] received block at slot %v, latency to blockTime: %v ms",
					u.Block.Slot, blockLatencyMs(now, u.Block))

				select {
				case m.blockChan <- u.Block:
				default:
					// 下游拥塞时丢块，漏扫核对兜底
					logger.Errorf("[GrpcStream] blockChan is full, discard block at slot %v", u.Block.Slot)
				}
				last = now
			}
		}

		if m.reconnectIfBlockTimeout(last, blockTimeout) {
			return
		}
	}
}

// blockLatencyMs 计算收到区块时相对链上出块时间的延迟（ms），blockTime 缺失时按 0 处理
func blockLatencyMs(now time.Time, block *pb.SubscribeUpdateBlock) int64 {
	return now.UnixMilli() - block.GetBlockTime().GetTimestamp()*1000
}

// 带超时的 Send
func sendWithTimeout[T any](ctx context.Context, sendFunc func(T) error, req T, timeout time.Duration) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sendFunc(req)
	}()

	select {
	case <-timeoutCtx.Done():
		return timeoutCtx.Err()
	case err := <-done:
		return err
	}
}

// 心跳检测
func (m *GrpcStreamManager) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(m.streamPingIntervalSec) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return // 优雅退出
		case <-ticker.C:
			pingReq := &pb.SubscribeRequest{
				Ping: &pb.SubscribeRequestPing{Id: 1},
			}
			err := sendWithTimeout(ctx, m.stream.Send, pingReq, time.Duration(m.sendTimeoutSec)*time.Second)
			if err != nil {
				// 只记录日志，不触发重连
				logger.Warnf("[GrpcStream] ping failed: %v", err)
			}
		}
	}
}

func (m *GrpcStreamManager) reconnectIfBlockTimeout(last time.Time, timeout time.Duration) bool {
	if time.Since(last) > timeout {
		logger.Warnf("[GrpcStream] no block received in %v, reconnecting", timeout)
		m.reconnect()
		return true
	}
	return false
}

func (m *GrpcStreamManager) reconnect() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	if m.connCancel != nil {
		m.connCancel() // 关闭所有相关 goroutine
		m.connCancel = nil
	}
	m.mu.Unlock()

	go m.mustConnect()
}

func boolPtr(b bool) *bool {
	return &b
}
