package food

import (
	"net/http"

	"stayinn/infras/otel"
	"stayinn/internal/domains/food/model"
	"stayinn/internal/domains/food/model/dto"
	"stayinn/internal/domains/food/service"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	"stayinn/shared/validator"
	"stayinn/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Food
	otel    otel.Otel
}

func New(service service.Food, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/foods", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateFood)
		routerGroup.Get("/", handler.GetFoods)
		routerGroup.Get("/{id}", handler.GetFoodByID)
		routerGroup.Patch("/{id}", handler.UpdateFood)
		routerGroup.Delete("/{id}", handler.DeleteFood)
	})
}

func (handler *Handler) CreateFood(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateFood")
	defer scope.End()

	req := dto.CreateFoodRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create food")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Food created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Food created successfully")
}

func (handler *Handler) GetFoods(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFoods")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	name := r.URL.Query().Get(model.FieldName)
	active := r.URL.Query().Get(model.FieldActive)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	if active != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    active,
			Table:    model.TableName,
		})
	}

	foods, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get foods")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Foods retrieved successfully")

	response.WithJSON(w, http.StatusOK, foods)
}

func (handler *Handler) GetFoodByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFoodByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	food, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get food by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Food retrieved successfully")

	response.WithJSON(w, http.StatusOK, food)
}

func (handler *Handler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateFood")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateFoodRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update food")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Food updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Food updated successfully")
}

func (handler *Handler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteFood")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete food")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Food deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Food deleted successfully")
}
