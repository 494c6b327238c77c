package service

import (
	"context"
	"fmt"

	"stayinn/config"
	"stayinn/infras/kafka"
	"stayinn/infras/otel"
	offerService "stayinn/internal/domains/offer/service"
	"stayinn/internal/domains/reservation/model"
	"stayinn/internal/domains/reservation/model/dto"
	"stayinn/internal/domains/reservation/repository"
	roomModel "stayinn/internal/domains/room/model"
	roomRepository "stayinn/internal/domains/room/repository"
	tokenService "stayinn/internal/domains/token/service"
	"stayinn/shared"
	"stayinn/shared/cache"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	"stayinn/shared/failure"
	"stayinn/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
	cacheRoomAvailability  = "room:availability"
)

const percentBase = 100

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	GetByNumber(ctx context.Context, number int64) (dto.ReservationDetailResponse, error)
	Confirm(ctx context.Context, id string, req dto.ConfirmReservationRequest) error
	UpdateStatus(ctx context.Context, id string, req dto.UpdateReservationStatusRequest) error
	Delete(ctx context.Context, id, expectedStatus string) error
	RequestCancellation(ctx context.Context, id string) error
	CancelWithCode(ctx context.Context, id string, req dto.CancelWithCodeRequest) error
}

type serviceImpl struct {
	repo     repository.Reservation
	roomRepo roomRepository.Room
	offers   offerService.Offer
	tokens   tokenService.Token
	kafka    kafka.Client
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.Reservation,
	roomRepo roomRepository.Room,
	offers offerService.Offer,
	tokens tokenService.Token,
	kafkaClient kafka.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		offers:   offers,
		tokens:   tokens,
		kafka:    kafkaClient,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// Create books a room for [check_in, check_out). The availability guard runs
// inside the insert statement, so when two guests race for the last room the
// store admits exactly one and the other receives a conflict.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	checkIn, checkOut, err := req.StayRange()
	if err != nil {
		return res, err
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room for reservation")

		return res, fmt.Errorf("failed to get room for reservation: %w", err)
	}

	if room.ID == constant.Empty || !room.Active {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	if req.Guests > room.Capacity {
		return res, failure.BadRequestFromString("party size exceeds room capacity") //nolint:wrapcheck
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	total := float64(nights) * room.Price

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
		log.Error().Err(err).Msg("failed to allocate reservation number")

		return res, fmt.Errorf("failed to allocate reservation number: %w", err)
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var userID *string
	if user != constant.Empty {
		userID = &user
	}

	actor := user
	if actor == constant.Empty {
		actor = constant.ContextGuest
	}

	rsv := req.ToModel(number, userID, checkIn, checkOut, total, offerDiscount, offerID, actor)

	inserted, err := s.repo.InsertIfAvailable(ctx, rsv)
	if err != nil {
		log.Error().Err(err).Msg("failed to create reservation")

		return res, fmt.Errorf("failed to create reservation: %w", err)
	}

	if !inserted {
		return res, failure.Conflict("no availability for the selected dates") //nolint:wrapcheck
	}

	res.FromModel(rsv)

	s.invalidateReservation(ctx, rsv.ID)
	s.publishEvent(ctx, dto.EventReservationCreated, rsv)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	rsv, err := s.getByID(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(rsv)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

// GetByNumber resolves a reservation by its public number together with the
// booked room and the offer behind the stored snapshot. The snapshot stays
// authoritative for pricing, the offer row is display only.
func (s *serviceImpl) GetByNumber(ctx context.Context, number int64) (res dto.ReservationDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.GetByNumber")
	defer scope.End()
	defer scope.TraceIfError(err)

	rsv, err := s.repo.Get(ctx, numberFilter(number))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation by number")

		return res, fmt.Errorf("failed to get reservation by number: %w", err)
	}

	if rsv.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") //nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(rsv.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room for reservation detail")

		return res, fmt.Errorf("failed to get room for reservation detail: %w", err)
	}

	res.ReservationResponse.FromModel(rsv)
	res.Room.FromModel(room)

	if rsv.OfferID != nil {
		if offer, err := s.offers.Get(ctx, *rsv.OfferID); err == nil {
			res.Offer = &offer
		}
	}

	return res, nil
}

// Confirm accumulates a payment and moves the reservation to confirmed. The
// increment runs in the store, so staged payments from concurrent confirms
// all land.
func (s *serviceImpl) Confirm(ctx context.Context, id string, req dto.ConfirmReservationRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	confirmed, err := s.repo.ConfirmPayment(ctx, id, req.Amount, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to confirm reservation")

		return fmt.Errorf("failed to confirm reservation: %w", err)
	}

	if !confirmed {
		rsv, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to inspect unconfirmed reservation")

			return fmt.Errorf("failed to inspect unconfirmed reservation: %w", err)
		}

		if rsv.ID == constant.Empty {
			return failure.NotFound("reservation not found") //nolint:wrapcheck
		}

		return failure.Conflict("a cancelled reservation cannot be confirmed") //nolint:wrapcheck
	}

	s.invalidateReservation(ctx, id)

	if rsv, err := s.getByID(ctx, id); err == nil {
		s.publishEvent(ctx, dto.EventReservationConfirmed, rsv)
	}

	return nil
}

// UpdateStatus overwrites the status without transition checks. Admin
// cancel/reject flows pick the target state themselves.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateReservationStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.UpdateStatus")
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
		log.Error().Err(err).Msg("failed to update reservation status")

		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	s.invalidateReservation(ctx, id)

	if req.Status == constant.ReservationStatusCancelled {
		rsv.Status = req.Status
		s.publishEvent(ctx, dto.EventReservationCancelled, rsv)
	}

	return nil
}

// Delete removes the reservation only while it still has the status the
// caller last saw, so an admin acting on a stale list cannot destroy a
// reservation that moved on.
func (s *serviceImpl) Delete(ctx context.Context, id, expectedStatus string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	rsv, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.DeleteIfStatus(ctx, id, expectedStatus)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete reservation")

		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	if !deleted {
		return failure.Conflict("reservation status changed, refresh and retry") //nolint:wrapcheck
	}

	s.invalidateReservation(ctx, id)
	s.publishEvent(ctx, dto.EventReservationDeleted, rsv)

	return nil
}

// RequestCancellation issues a short-lived 6-digit code bound to the
// reservation and hands it to the mail pipeline. Reissuing invalidates any
// earlier code.
func (s *serviceImpl) RequestCancellation(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.RequestCancellation")
	defer scope.End()
	defer scope.TraceIfError(err)

	rsv, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if rsv.Status == constant.ReservationStatusCancelled {
		return failure.Conflict("reservation is already cancelled") //nolint:wrapcheck
	}

	issued, err := s.tokens.Issue(ctx, rsv.ID, constant.TokenKindReservationCancellation)
	if err != nil {
		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		event := dto.CancellationCodeEvent{
			Event:      dto.EventReservationCancellationCode,
			ID:         rsv.ID,
			GuestEmail: rsv.GuestEmail,
			Code:       issued.Value,
			ExpiresAt:  timezone.Format(issued.ExpiresAt, constant.DateFormat),
		}

		message := kafka.Message{Key: rsv.ID, Value: event}
		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topic.ReservationEvents, message); err != nil {
			log.Error().Err(err).Str("reservation", rsv.ID).Msg("failed to publish cancellation code event")
		}
	}()

	return nil
}

// CancelWithCode cancels a reservation for a guest presenting the emailed
// code. The code is single-use.
func (s *serviceImpl) CancelWithCode(ctx context.Context, id string, req dto.CancelWithCodeRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.CancelWithCode")
	defer scope.End()
	defer scope.TraceIfError(err)

	rsv, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if err = s.tokens.Consume(ctx, rsv.ID, constant.TokenKindReservationCancellation, req.Code); err != nil {
		return err
	}

	return s.UpdateStatus(ctx, id, dto.UpdateReservationStatusRequest{Status: constant.ReservationStatusCancelled})
}

func (s *serviceImpl) getByID(ctx context.Context, id string) (model.Reservation, error) {
	rsv, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return rsv, fmt.Errorf("failed to get reservation: %w", err)
	}

	if rsv.ID == constant.Empty {
		return rsv, failure.NotFound("reservation not found") //nolint:wrapcheck
	}

	return rsv, nil
}

func (s *serviceImpl) invalidateReservation(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
		shared.InvalidateCaches(c, s.cache, cacheRoomAvailability)
	}()
}

func (s *serviceImpl) publishEvent(ctx context.Context, event string, rsv model.Reservation) {
	go func() {
		c := context.WithoutCancel(ctx)

		payload := dto.ReservationEvent{
			Event:      event,
			ID:         rsv.ID,
			Number:     rsv.Number,
			RoomID:     rsv.RoomID,
			GuestEmail: rsv.GuestEmail,
			CheckIn:    rsv.CheckIn.Format(constant.DateOnlyFormat),
			CheckOut:   rsv.CheckOut.Format(constant.DateOnlyFormat),
			Total:      rsv.Total,
			PaidAmount: rsv.PaidAmount,
			Status:     rsv.Status,
			OccurredAt: timezone.Format(timezone.Now(), constant.DateFormat),
		}

		message := kafka.Message{Key: rsv.ID, Value: payload}
		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topic.ReservationEvents, message); err != nil {
			log.Error().Err(err).Str("reservation", rsv.ID).Str("event", event).Msg("failed to publish reservation event")
		}
	}()
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
