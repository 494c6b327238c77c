package router

import (
	"stayinn/internal/handlers/auth"
	"stayinn/internal/handlers/dining"
	"stayinn/internal/handlers/food"
	"stayinn/internal/handlers/media"
	"stayinn/internal/handlers/offer"
	"stayinn/internal/handlers/reservation"
	"stayinn/internal/handlers/room"
	"stayinn/internal/handlers/stats"
	"stayinn/internal/handlers/table"
	"stayinn/internal/handlers/user"
	"stayinn/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth        auth.Handler
	Room        room.Handler
	Table       table.Handler
	Food        food.Handler
	Offer       offer.Handler
	Reservation reservation.Handler
	Dining      dining.Handler
	User        user.Handler
	Stats       stats.Handler
	Media       media.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Table.Router(routerGroup)
		r.DomainHandlers.Food.Router(routerGroup)
		r.DomainHandlers.Offer.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Dining.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Stats.Router(routerGroup)
		r.DomainHandlers.Media.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
