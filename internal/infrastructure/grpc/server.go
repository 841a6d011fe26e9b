package grpc

import (
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/wekeepgrowing/semo-accounting/internal/config"
	"github.com/wekeepgrowing/semo-accounting/pkg/logger"
)

// Server exposes grpc.health.v1 for the overall server and the accounting service
type Server struct {
	server  *grpc.Server
	health  *health.Server
	logger  *zap.Logger
	address string
}

func NewServer(cfg config.GRPCConfig, zapLogger *zap.Logger) *Server {
	server := grpc.NewServer(
		grpc.UnaryInterceptor(logger.NewGrpcUnaryServerInterceptor(zapLogger)),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(config.ServiceName, healthpb.HealthCheckResponse_SERVING)

	reflection.Register(server)

	return &Server{
		server:  server,
		health:  healthServer,
		logger:  zapLogger,
		address: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}
}

func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(listener)
}

func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("Starting gRPC server", zap.String("address", listener.Addr().String()))
	return s.server.Serve(listener)
}

// Stop marks every service NOT_SERVING before draining in-flight calls
func (s *Server) Stop() {
	s.logger.Info("Shutting down gRPC server")
	s.health.Shutdown()
	s.server.GracefulStop()
}
