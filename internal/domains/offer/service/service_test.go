package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stayinn/config"
	"stayinn/infras/otel/mocks"
	offerMocks "stayinn/internal/domains/offer/mocks"
	"stayinn/internal/domains/offer/model"
	"stayinn/internal/domains/offer/service"
	cacheMocks "stayinn/shared/cache/mocks"
	"stayinn/shared/failure"
)

func newService(t *testing.T) (service.Offer, *offerMocks.MockOffer) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := offerMocks.NewMockOffer(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	// Async cache writes may or may not land before the test ends.
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError).AnyTimes()

	return service.New(repo, &config.Config{}, cache, mocks.NewOtel()), repo
}

func TestOfferService_ResolveForBooking(t *testing.T) {
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

	summer := model.Offer{
		ID:        "offer-id-1",
		Code:      "SUMMER20",
		Name:      "Summer Special",
		Percent:   20,
		ValidFrom: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Active:    true,
	}

	t.Run("resolves a live offer", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(summer, nil)

		offer, err := svc.ResolveForBooking(context.Background(), "SUMMER20", now)

		assert.NoError(t, err)
		assert.Equal(t, float64(20), offer.Percent)
	})

	t.Run("unknown code is rejected", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Offer{}, nil)

		_, err := svc.ResolveForBooking(context.Background(), "NOPE", now)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("offer outside its window is rejected", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(summer, nil)

		_, err := svc.ResolveForBooking(context.Background(), "SUMMER20", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("boundary dates are inclusive", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(summer, nil).Times(2)

		_, err := svc.ResolveForBooking(context.Background(), "SUMMER20", summer.ValidFrom)
		assert.NoError(t, err)

		_, err = svc.ResolveForBooking(context.Background(), "SUMMER20", summer.ValidTo)
		assert.NoError(t, err)
	})

	t.Run("inactive offer is rejected", func(t *testing.T) {
		svc, repo := newService(t)

		disabled := summer
		disabled.Active = false

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(disabled, nil)

		_, err := svc.ResolveForBooking(context.Background(), "SUMMER20", now)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func TestOfferService_Get(t *testing.T) {
	t.Run("missing offer is a not found", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Offer{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
