package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"picshare/pkg/auth/jwt"
	"picshare/pkg/config"
	"picshare/pkg/logger"
	"picshare/services/rest-api/internal/handlers"
	"picshare/services/rest-api/internal/hash"
	"picshare/services/rest-api/internal/health"
	custommw "picshare/services/rest-api/internal/middleware"
	"picshare/services/rest-api/internal/repo"
	"picshare/services/rest-api/internal/service"
	"picshare/services/rest-api/internal/storage"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.Load()

	// Инициализируем логгер
	logger.InitLogger(cfg.LogLevel)
	slog.Info("picshare starting", "http_addr", cfg.HTTPAddr, "grpc_addr", cfg.GRPCAddr)

	// Подключение к БД
	db, err := sql.Open("postgres", cfg.DBDSN)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	if err := repo.Migrate(db); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	tokens, err := jwt.NewManager(jwt.Config{Key: cfg.JWTKey, Issuer: cfg.JWTIssuer, TTL: cfg.JWTTTL})
	if err != nil {
		slog.Error("failed to create token manager", "error", err)
		os.Exit(1)
	}

	images, err := storage.NewDiskStore(cfg.ImagesDir, "images")
	if err != nil {
		slog.Error("failed to prepare images dir", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализация зависимостей
	userRepo := repo.NewUserRepo(db)
	postRepo := repo.NewPostRepo(db)
	commentRepo := repo.NewCommentRepo(db)
	hasher := hash.NewArgon2Hasher()

	authService := service.NewAuthService(userRepo, hasher, tokens)
	userService := service.NewUserService(userRepo, hasher)
	postService := service.NewPostService(postRepo, userRepo)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo)
	imageService := service.NewImageService(images)

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:         handlers.NewAuthHandler(authService),
		Users:        handlers.NewUserHandler(userService),
		Posts:        handlers.NewPostHandler(postService, imageService),
		Comments:     handlers.NewCommentHandler(commentService),
		RequireAuth:  custommw.NewAuth(authService).RequireAuth,
		LoginLimiter: custommw.NewRateLimiter(ctx, cfg.LoginRate, cfg.LoginBurst, 10*time.Minute).Middleware,
		DB:           db,
		ImagesDir:    images.Dir(),
		CORSOrigins:  cfg.CORSOrigins,
		Timeout:      cfg.HTTPTimeout,
	})

	// gRPC сервер со статусом здоровья
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		slog.Error("failed to listen", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer()
	checker := health.NewChecker(db, cfg.HealthInterval)
	checker.Register(grpcServer)
	reflection.Register(grpcServer)

	go checker.Run(ctx)

	go func() {
		slog.Info("health gRPC listening", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("grpc server failed", "error", err)
			os.Exit(1)
		}
	}()

	// HTTP сервер
	srv := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("REST API started", "addr", cfg.HTTPAddr)

	// Ожидаем сигнал остановки
	<-ctx.Done()

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	grpcServer.GracefulStop()

	slog.Info("server stopped")
}
