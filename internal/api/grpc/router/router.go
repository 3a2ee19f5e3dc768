package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/senderkeys/internal/api/grpc/backupv1"
	"github.com/dtroode/senderkeys/internal/api/grpc/handler"
	"github.com/dtroode/senderkeys/internal/api/grpc/middleware"
	"github.com/dtroode/senderkeys/internal/logger"
	"github.com/dtroode/senderkeys/internal/model"
)

// publicPrefixes lists services reachable without a token.
var publicPrefixes = []string{
	"/grpc.health.v1.Health/",
	"/grpc.reflection.",
}

// Router represents a gRPC router for the sender key backup server.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	backupService  handler.BackupService
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	health         *health.Server
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	backupService handler.BackupService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		backupService:  backupService,
		tokenService:   tokenService,
		contextManager: contextManager,
		health:         health.NewServer(),
		logger:         logger,
	}
}

func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(c.FullMethod(), prefix) {
			return false
		}
	}
	return true
}

// Register builds the gRPC server with logging and authentication
// interceptors and registers the backup, health and reflection services.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
		grpc.ChainStreamInterceptor(
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)

	backupv1.RegisterBackupServer(s, handler.NewBackup(r.backupService, r.contextManager, r.logger))
	healthpb.RegisterHealthServer(s, r.health)
	reflection.Register(s)

	r.health.SetServingStatus(backupv1.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return s
}

// Shutdown reports every service as not serving.
func (r *Router) Shutdown() {
	r.health.Shutdown()
}
