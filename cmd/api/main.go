package main

import (
	"godent-be/internal/config"
	"godent-be/internal/domain/model"
	"godent-be/internal/handler"
	"godent-be/internal/infra/db"
	infraRepo "godent-be/internal/infra/repository"
	"godent-be/internal/logger"
	"godent-be/internal/payment"
	"godent-be/internal/server"
	"godent-be/internal/usecase"
	"godent-be/internal/validator"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env は無くても良い（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.GoEnv)
	defer logger.Sync()
	log := logger.L()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Brand{},
		&model.Product{},
		&model.ProductImage{},
		&model.CartLine{},
		&model.Favorite{},
		&model.Order{},
		&model.OrderItem{},
		&model.WebhookEvent{},
	); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	favoriteRepo := infraRepo.NewFavoriteGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	webhookEventRepo := infraRepo.NewWebhookEventGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Stripe
	stripeGW := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, validator.NewAuthValidator(userRepo))
	catalogUC := usecase.NewCatalogUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	favoriteUC := usecase.NewFavoriteUsecase(favoriteRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, orderItemRepo, stripeGW)
	webhookUC := usecase.NewWebhookUsecase(stripeGW, orderRepo, webhookEventRepo)

	//Handler生成
	h := server.Handlers{
		Auth:     handler.NewAuthHandler(authUC, cfg),
		Catalog:  handler.NewCatalogHandler(catalogUC),
		Cart:     handler.NewCartHandler(cartUC),
		Favorite: handler.NewFavoriteHandler(favoriteUC),
		Order:    handler.NewOrderHandler(orderUC, webhookUC),
	}

	//Server起動
	e := server.New(cfg)
	server.RegisterRoutes(e, cfg, h)

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := server.Start(e, cfg); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
