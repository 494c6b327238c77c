package dining

import (
	"net/http"
	"strconv"

	"stayinn/infras/otel"
	"stayinn/internal/domains/dining/model"
	"stayinn/internal/domains/dining/model/dto"
	"stayinn/internal/domains/dining/service"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	"stayinn/shared/failure"
	"stayinn/shared/validator"
	"stayinn/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Dining
	otel    otel.Otel
}

func New(service service.Dining, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/table-reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTableReservation)
		routerGroup.Get("/", handler.GetTableReservations)
		routerGroup.Get("/number/{number}", handler.GetTableReservationByNumber)
		routerGroup.Get("/{id}", handler.GetTableReservationByID)
		routerGroup.Post("/{id}/confirm", handler.ConfirmTableReservation)
		routerGroup.Patch("/{id}/status", handler.UpdateTableReservationStatus)
		routerGroup.Delete("/{id}", handler.DeleteTableReservation)
	})
}

func (handler *Handler) CreateTableReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTableReservation")
	defer scope.End()

	req := dto.CreateTableReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create table reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Table reservation created successfully for guest " + req.GuestEmail)

	response.WithJSON(w, http.StatusCreated, res)
}

func (handler *Handler) GetTableReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTableReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	tableID := r.URL.Query().Get(model.FieldTableID)
	status := r.URL.Query().Get(model.FieldStatus)
	date := r.URL.Query().Get(model.FieldDate)
	slot := r.URL.Query().Get(model.FieldSlot)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if tableID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldTableID,
			Operator: gDto.FilterOperatorEq,
			Value:    tableID,
			Table:    model.TableName,
		})
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if date != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldDate,
			Operator: gDto.FilterOperatorEq,
			Value:    date,
			Table:    model.TableName,
		})
	}

	if slot != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldSlot,
			Operator: gDto.FilterOperatorEq,
			Value:    slot,
			Table:    model.TableName,
		})
	}

	reservations, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get table reservations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Table reservations retrieved successfully")

	response.WithJSON(w, http.StatusOK, reservations)
}

func (handler *Handler) GetTableReservationByNumber(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTableReservationByNumber")
	defer scope.End()

	number, err := strconv.ParseInt(chi.URLParam(r, "number"), 10, 64)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse table reservation number")

		response.WithError(w, failure.BadRequestFromString("invalid reservation number"))

		return
	}

	reservation, err := handler.service.GetByNumber(ctx, number)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get table reservation by number")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Table reservation retrieved successfully")

	response.WithJSON(w, http.StatusOK, reservation)
}

func (handler *Handler) GetTableReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTableReservationByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	reservation, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get table reservation by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Table reservation retrieved successfully")

	response.WithJSON(w, http.StatusOK, reservation)
}

func (handler *Handler) ConfirmTableReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConfirmTableReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ConfirmTableReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Confirm(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to confirm table reservation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Table reservation confirmed successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Table reservation confirmed successfully")
}

func (handler *Handler) UpdateTableReservationStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTableReservationStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateTableReservationStatusRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update table reservation status")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Table reservation status updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Table reservation status updated successfully")
}

func (handler *Handler) DeleteTableReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTableReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	expectedStatus := r.URL.Query().Get("expected_status")
	if expectedStatus == "" {
		expectedStatus = constant.ReservationStatusPending
	}

	if err := handler.service.Delete(ctx, id, expectedStatus); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete table reservation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Table reservation deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Table reservation deleted successfully")
}
