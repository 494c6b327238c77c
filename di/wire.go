//go:build wireinject
// +build wireinject

package di

import (
	"stayinn/config"
	"stayinn/infras/jwt"
	"stayinn/infras/kafka"
	"stayinn/infras/otel"
	"stayinn/infras/postgres"
	"stayinn/infras/redis"
	"stayinn/infras/s3"
	"stayinn/permissions"
	"stayinn/shared/cache"
	"stayinn/transport/http"
	"stayinn/transport/http/middleware"
	"stayinn/transport/http/router"

	"github.com/google/wire"

	authService "stayinn/internal/domains/auth/service"
	diningRepository "stayinn/internal/domains/dining/repository"
	diningService "stayinn/internal/domains/dining/service"
	foodRepository "stayinn/internal/domains/food/repository"
	foodService "stayinn/internal/domains/food/service"
	mediaService "stayinn/internal/domains/media/service"
	offerRepository "stayinn/internal/domains/offer/repository"
	offerService "stayinn/internal/domains/offer/service"
	reservationRepository "stayinn/internal/domains/reservation/repository"
	reservationService "stayinn/internal/domains/reservation/service"
	roomRepository "stayinn/internal/domains/room/repository"
	roomService "stayinn/internal/domains/room/service"
	statsRepository "stayinn/internal/domains/stats/repository"
	statsService "stayinn/internal/domains/stats/service"
	tableRepository "stayinn/internal/domains/table/repository"
	tableService "stayinn/internal/domains/table/service"
	tokenRepository "stayinn/internal/domains/token/repository"
	tokenService "stayinn/internal/domains/token/service"
	userRepository "stayinn/internal/domains/user/repository"
	userService "stayinn/internal/domains/user/service"

	authHandler "stayinn/internal/handlers/auth"
	diningHandler "stayinn/internal/handlers/dining"
	foodHandler "stayinn/internal/handlers/food"
	mediaHandler "stayinn/internal/handlers/media"
	offerHandler "stayinn/internal/handlers/offer"
	reservationHandler "stayinn/internal/handlers/reservation"
	roomHandler "stayinn/internal/handlers/room"
	statsHandler "stayinn/internal/handlers/stats"
	tableHandler "stayinn/internal/handlers/table"
	userHandler "stayinn/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var tableDomain = wire.NewSet(
	tableRepository.New,
	tableService.New,
)

var foodDomain = wire.NewSet(
	foodRepository.New,
	foodService.New,
)

var offerDomain = wire.NewSet(
	offerRepository.New,
	offerService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var diningDomain = wire.NewSet(
	diningRepository.New,
	diningService.New,
)

var tokenDomain = wire.NewSet(
	tokenRepository.New,
	tokenService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var statsDomain = wire.NewSet(
	statsRepository.New,
	statsService.New,
)

var mediaDomain = wire.NewSet(
	mediaService.New,
)

var domains = wire.NewSet(
	roomDomain,
	tableDomain,
	foodDomain,
	offerDomain,
	reservationDomain,
	diningDomain,
	tokenDomain,
	userDomain,
	authDomain,
	statsDomain,
	mediaDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	roomHandler.New,
	tableHandler.New,
	foodHandler.New,
	offerHandler.New,
	reservationHandler.New,
	diningHandler.New,
	userHandler.New,
	statsHandler.New,
	mediaHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
