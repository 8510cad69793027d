//go:build wireinject

package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
	"github.com/meritrix/meritrix-backend/internal/config"
	"github.com/meritrix/meritrix-backend/internal/handler"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"github.com/meritrix/meritrix-backend/internal/server"
	"github.com/meritrix/meritrix-backend/internal/service"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func InitializeAPI(cfg *config.Config, db *gorm.DB, log *zap.Logger) (*fiber.App, func(), error) {
	wire.Build(
		// Repositories
		repository.NewUserRepository,
		repository.NewContentRepository,
		repository.NewPurchaseRepository,
		repository.NewPackageRepository,
		repository.NewCouponRepository,
		repository.NewPassRepository,
		repository.NewLiveSessionRepository,
		repository.NewLiveBookingRepository,

		// Infrastructure
		provideGateway,
		provideIdempotencyStore,
		provideStorage,
		provideMailer,
		provideCaptcha,
		provideTokens,
		provideQR,
		utils.NewValidator,

		// Services
		service.NewAuthService,
		service.NewUserService,
		provideContentService,
		service.NewPassService,
		service.NewPaymentService,
		service.NewBookingService,
		service.NewLiveSessionService,
		service.NewPackageService,
		service.NewAdminService,

		wire.Bind(new(handler.AuthService), new(*service.AuthService)),
		wire.Bind(new(handler.UserService), new(*service.UserService)),
		wire.Bind(new(handler.ContentService), new(*service.ContentService)),
		wire.Bind(new(handler.PassService), new(*service.PassService)),
		wire.Bind(new(handler.PaymentService), new(*service.PaymentService)),
		wire.Bind(new(handler.BookingService), new(*service.BookingService)),
		wire.Bind(new(handler.LiveSessionService), new(*service.LiveSessionService)),
		wire.Bind(new(handler.PackageService), new(*service.PackageService)),
		wire.Bind(new(handler.AdminService), new(*service.AdminService)),
		provideAuthenticator,

		// Handlers
		handler.NewAuthHandler,
		handler.NewUserHandler,
		handler.NewContentHandler,
		handler.NewPassHandler,
		handler.NewPaymentHandler,
		handler.NewBookingHandler,
		handler.NewLiveSessionHandler,
		handler.NewPackageHandler,
		handler.NewAdminHandler,
		provideHandlers,

		// App
		server.New,
	)
	return nil, nil, nil
}
