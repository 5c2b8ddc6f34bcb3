package main

import (
	"flag"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"pumpswap-indexer-sol/internal/config"
	"pumpswap-indexer-sol/internal/logger"
	grpclogic "pumpswap-indexer-sol/internal/logic/grpc"
	"pumpswap-indexer-sol/internal/svc"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	zerosvc "github.com/zeromicro/go-zero/core/service"
)

var configFile = flag.String("f", "etc/grpc.yaml", "the config file")

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
	}()

	flag.Parse()

	var c config.GrpcConfig
	conf.MustLoad(*configFile, &c)

	if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
		panic(err)
	}
	defer logger.Sync()

	serviceContext, err := svc.NewGrpcServiceContext(c)
	if err != nil {
		panic(err)
	}
	defer serviceContext.Close()

	sg := zerosvc.NewServiceGroup()

	blockChan := make(chan *pb.SubscribeUpdateBlock, 200)
	defer close(blockChan)

	slotChecker := grpclogic.NewSlotChecker(c.RpcEndpoint, serviceContext.Progress)
	sg.Add(slotChecker)

	blockProcessor := grpclogic.NewBlockProcessor(serviceContext, blockChan, slotChecker)
	sg.Add(blockProcessor)

	grpcService, err := grpclogic.NewGrpcStreamManager(serviceContext, blockChan)
	if err != nil {
		panic(err)
	}
	sg.Add(grpcService)

	logx.Infof("Starting grpc stream service")

	// 启动服务
	sg.Start()

	// 等待退出信号
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logx.Info("Shutting down services...")
	sg.Stop()
}
