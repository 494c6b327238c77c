package service

import (
	"context"
	"fmt"
	"time"

	"stayinn/config"
	"stayinn/infras/otel"
	diningModel "stayinn/internal/domains/dining/model"
	rsvModel "stayinn/internal/domains/reservation/model"
	"stayinn/internal/domains/stats/model/dto"
	"stayinn/internal/domains/stats/repository"
	"stayinn/shared"
	"stayinn/shared/cache"
	"stayinn/shared/constant"
	"stayinn/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheRevenueStats = "stats:revenue"
	cacheBookingStats = "stats:bookings"
)

const (
	weekDays    = 7
	percentBase = 100
)

type Stats interface {
	Revenue(ctx context.Context) (dto.RevenueStatsResponse, error)
	Bookings(ctx context.Context) (dto.BookingStatsResponse, error)
}

type serviceImpl struct {
	repo  repository.Stats
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Stats, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Stats {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Revenue reports paid amounts for the trailing week and month, each against
// the window immediately before it. Room and table reservations are summed
// together.
func (s *serviceImpl) Revenue(ctx context.Context) (res dto.RevenueStatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".stats.Revenue")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheRevenueStats, "all")

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for revenue stats")

		return res, nil
	}

	now := timezone.Now()

	weekCurrent, weekPrevious, err := s.sumWindows(ctx, now.AddDate(0, 0, -weekDays), now, now.AddDate(0, 0, -2*weekDays))
	if err != nil {
		return res, err
	}

	monthCurrent, monthPrevious, err := s.sumWindows(ctx, now.AddDate(0, -1, 0), now, now.AddDate(0, -2, 0))
	if err != nil {
		return res, err
	}

	res.Week = dto.PeriodDelta{
		Current:      weekCurrent,
		Previous:     weekPrevious,
		DeltaPercent: deltaPercent(weekCurrent, weekPrevious),
	}
	res.Month = dto.PeriodDelta{
		Current:      monthCurrent,
		Previous:     monthPrevious,
		DeltaPercent: deltaPercent(monthCurrent, monthPrevious),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save revenue stats to cache")
		}
	}()

	return res, nil
}

// Bookings reports reservation counts over the same trailing windows.
func (s *serviceImpl) Bookings(ctx context.Context) (res dto.BookingStatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".stats.Bookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheBookingStats, "all")

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking stats")

		return res, nil
	}

	now := timezone.Now()

	weekCurrent, weekPrevious, err := s.countWindows(ctx, now.AddDate(0, 0, -weekDays), now, now.AddDate(0, 0, -2*weekDays))
	if err != nil {
		return res, err
	}

	monthCurrent, monthPrevious, err := s.countWindows(ctx, now.AddDate(0, -1, 0), now, now.AddDate(0, -2, 0))
	if err != nil {
		return res, err
	}

	res.Week = dto.CountDelta{
		Current:      weekCurrent,
		Previous:     weekPrevious,
		DeltaPercent: deltaPercent(float64(weekCurrent), float64(weekPrevious)),
	}
	res.Month = dto.CountDelta{
		Current:      monthCurrent,
		Previous:     monthPrevious,
		DeltaPercent: deltaPercent(float64(monthCurrent), float64(monthPrevious)),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking stats to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) sumWindows(ctx context.Context, from, to, previousFrom time.Time) (current, previous float64, err error) {
	for _, table := range []string{rsvModel.TableName, diningModel.TableName} {
		sum, err := s.repo.SumPaidBetween(ctx, table, from, to)
		if err != nil {
			log.Error().Err(err).Str("table", table).Msg("failed to sum current revenue")

			return 0, 0, fmt.Errorf("failed to sum current revenue: %w", err)
		}

		current += sum

		sum, err = s.repo.SumPaidBetween(ctx, table, previousFrom, from)
		if err != nil {
			log.Error().Err(err).Str("table", table).Msg("failed to sum previous revenue")

			return 0, 0, fmt.Errorf("failed to sum previous revenue: %w", err)
		}

		previous += sum
	}

	return current, previous, nil
}

func (s *serviceImpl) countWindows(ctx context.Context, from, to, previousFrom time.Time) (current, previous int64, err error) {
	for _, table := range []string{rsvModel.TableName, diningModel.TableName} {
		count, err := s.repo.CountCreatedBetween(ctx, table, from, to)
		if err != nil {
			log.Error().Err(err).Str("table", table).Msg("failed to count current bookings")

			return 0, 0, fmt.Errorf("failed to count current bookings: %w", err)
		}

		current += count

		count, err = s.repo.CountCreatedBetween(ctx, table, previousFrom, from)
		if err != nil {
			log.Error().Err(err).Str("table", table).Msg("failed to count previous bookings")

			return 0, 0, fmt.Errorf("failed to count previous bookings: %w", err)
		}

		previous += count
	}

	return current, previous, nil
}

// deltaPercent avoids dividing by an empty previous window: no activity at
// all reads as 0, while revenue appearing from nothing reads as 100.
func deltaPercent(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}

		return percentBase
	}

	return (current - previous) / previous * percentBase
}
