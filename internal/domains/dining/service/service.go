package service

import (
	"context"
	"fmt"

	"stayinn/config"
	"stayinn/infras/kafka"
	"stayinn/infras/otel"
	"stayinn/internal/domains/dining/model"
	"stayinn/internal/domains/dining/model/dto"
	"stayinn/internal/domains/dining/repository"
	foodModel "stayinn/internal/domains/food/model"
	foodRepository "stayinn/internal/domains/food/repository"
	offerService "stayinn/internal/domains/offer/service"
	tableModel "stayinn/internal/domains/table/model"
	tableRepository "stayinn/internal/domains/table/repository"
	"stayinn/shared"
	"stayinn/shared/cache"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	"stayinn/shared/failure"
	gModel "stayinn/shared/model"
	"stayinn/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetDining         = "dining:get"
	cacheGetAllDining      = "dining:gets"
	cacheCountDining       = "dining:count"
	cacheTableAvailability = "table:availability"
)

const percentBase = 100

type Dining interface {
	Create(ctx context.Context, req dto.CreateTableReservationRequest) (dto.TableReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTableReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.TableReservationResponse, error)
	GetByNumber(ctx context.Context, number int64) (dto.TableReservationDetailResponse, error)
	Confirm(ctx context.Context, id string, req dto.ConfirmTableReservationRequest) error
	UpdateStatus(ctx context.Context, id string, req dto.UpdateTableReservationStatusRequest) error
	Delete(ctx context.Context, id, expectedStatus string) error
}

type serviceImpl struct {
	repo      repository.Dining
	tableRepo tableRepository.Table
	foodRepo  foodRepository.Food
	offers    offerService.Offer
	kafka     kafka.Client
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Dining,
	tableRepo tableRepository.Table,
	foodRepo foodRepository.Food,
	offers offerService.Offer,
	kafkaClient kafka.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Dining {
	return &serviceImpl{
		repo:      repo,
		tableRepo: tableRepo,
		foodRepo:  foodRepo,
		offers:    offers,
		kafka:     kafkaClient,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// Create books a table for one date and slot, with optional food pre-order
// lines. Line prices are snapshotted from the menu at booking time, so later
// menu changes never reprice an existing order. The availability guard runs
// inside the insert, so of two racing bookings the store admits exactly one.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTableReservationRequest) (res dto.TableReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dining.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	date, err := req.BookingDate()
	if err != nil {
		return res, err
	}

	table, err := s.tableRepo.Get(ctx, shared.FilterByID(req.TableID, tableModel.FieldID, tableModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get table for reservation")

		return res, fmt.Errorf("failed to get table for reservation: %w", err)
	}

	if table.ID == constant.Empty || !table.Active {
		return res, failure.NotFound("table not found") //nolint:wrapcheck
	}

	if req.Guests > table.Seats {
		return res, failure.BadRequestFromString("party size exceeds table seats") //nolint:wrapcheck
	}

	total := table.Price

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	actor := user
	if actor == constant.Empty {
		actor = constant.ContextGuest
	}

	lines, linesTotal, err := s.buildLines(ctx, req.Lines, actor)
	if err != nil {
		return res, err
	}

	total += linesTotal

	var offerID *string

	offerDiscount := 0.0

	if req.OfferCode != constant.Empty {
		offer, err := s.offers.ResolveForBooking(ctx, req.OfferCode, timezone.Now())
		if err != nil {
			return res, err
		}

		offerID = &offer.ID
		offerDiscount = offer.Percent
		total -= total * offer.Percent / percentBase
	}

	number, err := s.repo.NextNumber(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to allocate table reservation number")

		return res, fmt.Errorf("failed to allocate table reservation number: %w", err)
	}

	var userID *string
	if user != constant.Empty {
		userID = &user
	}

	rsv := req.ToModel(number, userID, date, total, offerDiscount, offerID, actor)

	for i := range lines {
		lines[i].ReservationID = rsv.ID
	}

	inserted, err := s.repo.InsertIfAvailable(ctx, rsv, lines)
	if err != nil {
		log.Error().Err(err).Msg("failed to create table reservation")

		return res, fmt.Errorf("failed to create table reservation: %w", err)
	}

	if !inserted {
		return res, failure.Conflict("table is already booked for that slot") //nolint:wrapcheck
	}

	res.FromModel(rsv)
	res.WithLines(lines)

	s.invalidateDining(ctx, rsv.ID)
	s.publishEvent(ctx, dto.EventTableReservationCreated, rsv)

	return res, nil
}

// buildLines resolves each requested dish and snapshots its current price.
func (s *serviceImpl) buildLines(ctx context.Context, reqs []dto.FoodOrderLineRequest, actor string) ([]model.FoodOrderLine, float64, error) {
	lines := make([]model.FoodOrderLine, 0, len(reqs))
	total := 0.0

	for _, line := range reqs {
		food, err := s.foodRepo.Get(ctx, shared.FilterByID(line.FoodID, foodModel.FieldID, foodModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get food for order line")

			return nil, 0, fmt.Errorf("failed to get food for order line: %w", err)
		}

		if food.ID == constant.Empty || !food.Active {
			return nil, 0, failure.BadRequestFromString("unknown food item on order") //nolint:wrapcheck
		}

		lines = append(lines, model.FoodOrderLine{
			ID:             uuid.NewString(),
			FoodID:         food.ID,
			Quantity:       line.Quantity,
			Price:          food.Price,
			SpecialRequest: line.SpecialRequest,
			FoodName:       food.Name,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  actor,
				ModifiedBy: actor,
			},
		})

		total += float64(line.Quantity) * food.Price
	}

	return lines, total, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTableReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dining.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllDining, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for table reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count table reservations")

		return res, fmt.Errorf("failed to count table reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get table reservations")

		return res, fmt.Errorf("failed to get table reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save table reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dining.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountDining, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for table reservation count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count table reservations")

		return res, fmt.Errorf("failed to count table reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save table reservation count to cache")
		}
	}()

	return res, nil
}

// Get resolves the reservation together with its pre-order lines.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TableReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dining.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetDining, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for table reservation")

		return res, nil
	}

	rsv, err := s.getByID(ctx, id)
	if err != nil {
		return res, err
	}

	lines, err := s.repo.GetLines(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get food order lines")

		return res, fmt.Errorf("failed to get food order lines: %w", err)
	}

	res.FromModel(rsv)
	res.WithLines(lines)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save table reservation to cache")
		}
	}()

	return res, nil
}

// GetByNumber resolves a reservation by its public number together with the
// booked table, the pre-order lines, and the offer behind the stored
// snapshot. The snapshot stays authoritative for pricing, the offer row is
// display only.
func (s *serviceImpl) GetByNumber(ctx context.Context, number int64) (res dto.TableReservationDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dining.GetByNumber")
	defer scope.End()
	defer scope.TraceIfError(err)

	rsv, err := s.repo.Get(ctx, numberFilter(number))
	if err != nil {
		log.Error().Err(err).Msg("failed to get table reservation by number")

		return res, fmt.Errorf("failed to get table reservation by number: %w", err)
	}

	if rsv.ID == constant.Empty {
		return res, failure.NotFound("table reservation not found") //nolint:wrapcheck
	}

	table, err := s.tableRepo.Get(ctx, shared.FilterByID(rsv.TableID, tableModel.FieldID, tableModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get table for reservation detail")

		return res, fmt.Errorf("failed to get table for reservation detail: %w", err)
	}

	lines, err := s.repo.GetLines(ctx, rsv.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get food order lines")

		return res, fmt.Errorf("failed to get food order lines: %w", err)
	}

	res.TableReservationResponse.FromModel(rsv)
	res.WithLines(lines)
	res.Table.FromModel(table)

	if rsv.OfferID != nil {
		if offer, err := s.offers.Get(ctx, *rsv.OfferID); err == nil {
			res.Offer = &offer
		}
	}

	return res, nil
}

// Confirm accumulates a payment and moves the reservation to confirmed.
func (s *serviceImpl) Confirm(ctx context.Context, id string, req dto.ConfirmTableReservationRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dining.Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	confirmed, err := s.repo.ConfirmPayment(ctx, id, req.Amount, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to confirm table reservation")

		return fmt.Errorf("failed to confirm table reservation: %w", err)
	}

	if !confirmed {
		rsv, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to inspect unconfirmed table reservation")

			return fmt.Errorf("failed to inspect unconfirmed table reservation: %w", err)
		}

		if rsv.ID == constant.Empty {
			return failure.NotFound("table reservation not found") //nolint:wrapcheck
		}

		return failure.Conflict("a cancelled table reservation cannot be confirmed") //nolint:wrapcheck
	}

	s.invalidateDining(ctx, id)

	if rsv, err := s.getByID(ctx, id); err == nil {
		s.publishEvent(ctx, dto.EventTableReservationConfirmed, rsv)
	}

	return nil
}

// UpdateStatus overwrites the status without transition checks. Admin
// cancel/reject flows pick the target state themselves.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateTableReservationStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dining.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	rsv, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	fields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update table reservation status")

		return fmt.Errorf("failed to update table reservation status: %w", err)
	}

	s.invalidateDining(ctx, id)

	if req.Status == constant.ReservationStatusCancelled {
		rsv.Status = req.Status
		s.publishEvent(ctx, dto.EventTableReservationCancelled, rsv)
	}

	return nil
}

// Delete removes the reservation only while it still has the status the
// caller last saw.
func (s *serviceImpl) Delete(ctx context.Context, id, expectedStatus string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dining.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	rsv, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.DeleteIfStatus(ctx, id, expectedStatus)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete table reservation")

		return fmt.Errorf("failed to delete table reservation: %w", err)
	}

	if !deleted {
		return failure.Conflict("reservation status changed, refresh and retry") //nolint:wrapcheck
	}

	s.invalidateDining(ctx, id)
	s.publishEvent(ctx, dto.EventTableReservationDeleted, rsv)

	return nil
}

func (s *serviceImpl) getByID(ctx context.Context, id string) (model.TableReservation, error) {
	rsv, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get table reservation")

		return rsv, fmt.Errorf("failed to get table reservation: %w", err)
	}

	if rsv.ID == constant.Empty {
		return rsv, failure.NotFound("table reservation not found") //nolint:wrapcheck
	}

	return rsv, nil
}

func numberFilter(number int64) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldNumber,
				Value:    number,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) invalidateDining(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetDining, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete table reservation cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllDining)
		shared.InvalidateCaches(c, s.cache, cacheCountDining)
		shared.InvalidateCaches(c, s.cache, cacheTableAvailability)
	}()
}

func (s *serviceImpl) publishEvent(ctx context.Context, event string, rsv model.TableReservation) {
	go func() {
		c := context.WithoutCancel(ctx)

		payload := dto.TableReservationEvent{
			Event:      event,
			ID:         rsv.ID,
			Number:     rsv.Number,
			TableID:    rsv.TableID,
			GuestEmail: rsv.GuestEmail,
			Date:       rsv.Date.Format(constant.DateOnlyFormat),
			Slot:       rsv.Slot,
			Total:      rsv.Total,
			PaidAmount: rsv.PaidAmount,
			Status:     rsv.Status,
			OccurredAt: timezone.Format(timezone.Now(), constant.DateFormat),
		}

		message := kafka.Message{Key: rsv.ID, Value: payload}
		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topic.ReservationEvents, message); err != nil {
			log.Error().Err(err).Str("reservation", rsv.ID).Str("event", event).Msg("failed to publish table reservation event")
		}
	}()
}
