package service

import (
	"context"
	"fmt"
	"time"

	"stayinn/config"
	"stayinn/infras/otel"
	"stayinn/internal/domains/offer/model"
	"stayinn/internal/domains/offer/model/dto"
	"stayinn/internal/domains/offer/repository"
	"stayinn/shared"
	"stayinn/shared/cache"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	"stayinn/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetOffer    = "offer:get"
	cacheGetAllOffer = "offer:gets"
	cacheCountOffer  = "offer:count"
)

type Offer interface {
	Create(ctx context.Context, req dto.CreateOfferRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetOffersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.OfferResponse, error)
	ResolveForBooking(ctx context.Context, code string, at time.Time) (model.Offer, error)
	Update(ctx context.Context, req dto.UpdateOfferRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Offer
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Offer, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Offer {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateOfferRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	offer, err := req.ToModel(user)
	if err != nil {
		return failure.BadRequestFromString("invalid validity dates") //nolint:wrapcheck
	}

	if offer.ValidTo.Before(offer.ValidFrom) {
		return failure.BadRequestFromString("valid_from must not be after valid_to") //nolint:wrapcheck
	}

	taken, err := s.repo.Exist(ctx, offerCodeFilter(req.Code))
	if err != nil {
		log.Error().Err(err).Msg("failed to check offer code uniqueness")

		return fmt.Errorf("failed to check offer code uniqueness: %w", err)
	}

	if taken {
		return failure.Conflict("offer code already in use") //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, offer); err != nil {
		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllOffer)
		shared.InvalidateCaches(c, s.cache, cacheCountOffer)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetOffersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllOffer, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for offers")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count offers")

		return res, fmt.Errorf("failed to count offers: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get offers")

		return res, fmt.Errorf("failed to get offers: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save offers to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountOffer, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for offer count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count offers")

		return res, fmt.Errorf("failed to count offers: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save offer count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetOffer, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for offer")

		return res, nil
	}

	offer, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get offer")

		return res, fmt.Errorf("failed to get offer: %w", err)
	}

	if offer.ID == constant.Empty {
		return res, failure.NotFound("offer not found") //nolint:wrapcheck
	}

	res.FromModel(offer)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save offer to cache")
		}
	}()

	return res, nil
}

// ResolveForBooking returns the offer behind a code only when it is valid at
// the booking moment. Reservation services snapshot its percent so later
// offer edits never change an existing booking.
func (s *serviceImpl) ResolveForBooking(ctx context.Context, code string, at time.Time) (res model.Offer, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.ResolveForBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	offer, err := s.repo.Get(ctx, offerCodeFilter(code))
	if err != nil {
		log.Error().Err(err).Msg("failed to get offer by code")

		return res, fmt.Errorf("failed to get offer by code: %w", err)
	}

	if offer.ID == constant.Empty {
		return res, failure.BadRequestFromString("unknown offer code") //nolint:wrapcheck
	}

	if !offer.ValidAt(at) {
		return res, failure.BadRequestFromString("offer is not valid for this booking date") //nolint:wrapcheck
	}

	return offer, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateOfferRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check offer existence")

		return fmt.Errorf("failed to check offer existence: %w", err)
	}

	if !exist {
		log.Error().Msg("offer not found")

		return failure.NotFound("offer not found") //nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update offer")

		return fmt.Errorf("failed to update offer: %w", err)
	}

	s.invalidateOffer(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".offer.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if offer exists")

		return fmt.Errorf("failed to check if offer exists: %w", err)
	}

	if !exist {
		log.Error().Msg("offer not found")

		return failure.NotFound("offer not found") //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete offer")

		return fmt.Errorf("failed to delete offer: %w", err)
	}

	s.invalidateOffer(ctx, id)

	return nil
}

func (s *serviceImpl) invalidateOffer(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetOffer, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete offer cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllOffer)
		shared.InvalidateCaches(c, s.cache, cacheCountOffer)
	}()
}

func offerCodeFilter(code string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCode,
				Value:    code,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}
