package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appbook "github.com/xiebiao/library/internal/application/book"
	appborrowing "github.com/xiebiao/library/internal/application/borrowing"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
	"github.com/xiebiao/library/pkg/response"
	"github.com/xiebiao/library/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go提供等价的Wire版本）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化指标
	metrics.InitMetrics()

	// 3. 初始化追踪(可选)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化追踪失败: %v", err)
		}
		defer shutdown(context.Background())
	}

	// 4. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 5. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 6. 初始化消息发布者(可选)
	var publisher appborrowing.EventPublisher
	if cfg.MQ.Enabled {
		p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化消息发布者失败: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	// 7. 依赖注入（手动组装）
	// 依赖链: Repository ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	borrowingRepo := mysql.NewBorrowingRepository(db)
	txManager := mysql.NewTxManager(db)
	bookCache := redis.NewBookCache(redisClient, cfg.Redis.DetailTTL)

	// 领域层
	userService := user.NewService(userRepo)
	bookService := book.NewService(bookRepo)

	// 应用层
	registerUserUseCase := appuser.NewRegisterUserUseCase(userService)
	manageUserUseCase := appuser.NewManageUserUseCase(userService)
	registerBookUseCase := appbook.NewRegisterBookUseCase(bookService)
	getBookUseCase := appbook.NewGetBookUseCase(bookService, bookCache)
	listBooksUseCase := appbook.NewListBooksUseCase(bookService)
	manageBookUseCase := appbook.NewManageBookUseCase(bookService, bookCache)
	borrowUseCase := appborrowing.NewBorrowBookUseCase(
		borrowingRepo, bookRepo, userRepo, txManager, publisher, bookCache)
	returnUseCase := appborrowing.NewReturnBookUseCase(
		borrowingRepo, bookRepo, txManager, publisher, bookCache)
	fineUseCase := appborrowing.NewCalculateFineUseCase(borrowingRepo)
	listBorrowingsUseCase := appborrowing.NewListBorrowingsUseCase(borrowingRepo)

	// 接口层
	userHandler := handler.NewUserHandler(registerUserUseCase, manageUserUseCase)
	bookHandler := handler.NewBookHandler(registerBookUseCase, getBookUseCase, listBooksUseCase, manageBookUseCase)
	borrowingHandler := handler.NewBorrowingHandler(borrowUseCase, returnUseCase, fineUseCase, listBorrowingsUseCase)

	// 8. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(), middleware.Metrics(), middleware.CORS())

	// 9. 注册路由
	registerRoutes(r, userHandler, bookHandler, borrowingHandler)

	// 10. 启动服务(优雅停机)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n服务启动成功: http://localhost%s\n", addr)
		fmt.Printf("  健康检查: GET  /ping\n")
		fmt.Printf("  监控指标: GET  /metrics\n")
		fmt.Printf("  API文档:  GET  /swagger/index.html\n\n")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在停机...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("停机失败: %v", err)
	}
	log.Println("服务已退出")
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	borrowingHandler *handler.BorrowingHandler,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 用户模块
		users := v1.Group("/users")
		{
			users.POST("", userHandler.Register)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id/status", userHandler.SetStatus)
			users.GET("/:id/borrowings", borrowingHandler.ListUserBorrowings)
		}

		// 图书模块
		books := v1.Group("/books")
		{
			books.POST("", bookHandler.RegisterBook)
			books.GET("", bookHandler.ListBooks)
			books.GET("/:id", bookHandler.GetBook)
			books.PUT("/:id", bookHandler.UpdateBook)
			books.DELETE("/:id", bookHandler.RemoveBook)
			books.GET("/:id/borrowings", borrowingHandler.ListBookBorrowings)
		}

		// 借阅模块
		borrowings := v1.Group("/borrowings")
		{
			borrowings.POST("", borrowingHandler.BorrowBook)
			borrowings.GET("/:id", borrowingHandler.GetBorrowing)
			borrowings.POST("/:id/return", borrowingHandler.ReturnBook)
			borrowings.GET("/:id/fine", borrowingHandler.GetFine)
		}
	}
}
