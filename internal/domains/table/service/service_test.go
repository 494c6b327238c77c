package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stayinn/config"
	"stayinn/infras/otel/mocks"
	tableMocks "stayinn/internal/domains/table/mocks"
	"stayinn/internal/domains/table/model"
	"stayinn/internal/domains/table/model/dto"
	"stayinn/internal/domains/table/service"
	cacheMocks "stayinn/shared/cache/mocks"
	"stayinn/shared/constant"
	"stayinn/shared/failure"
)

func newService(t *testing.T) (service.Table, *tableMocks.MockTable, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := tableMocks.NewMockTable(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	// Async cache writes may or may not land before the test ends.
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(repo, &config.Config{}, cache, mocks.NewOtel()), repo, cache
}

func TestTableService_GetAvailability(t *testing.T) {
	vipTable := model.Table{
		ID:          "table-id-1",
		TableNumber: "T1",
		SeatType:    constant.SeatTypeVIP,
		Price:       80,
		Seats:       4,
		Active:      true,
	}
	indoorTable := model.Table{
		ID:          "table-id-2",
		TableNumber: "T7",
		SeatType:    constant.SeatTypeIndoor,
		Price:       40,
		Seats:       2,
		Active:      true,
	}

	t.Run("returns matching and alternative tables", func(t *testing.T) {
		svc, repo, cache := newService(t)

		date := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)

		repo.EXPECT().
			FindAvailable(gomock.Any(), constant.SeatTypeVIP, date, constant.DiningSlotDinner, true).
			Return([]model.Table{vipTable}, nil)
		repo.EXPECT().
			FindAvailable(gomock.Any(), constant.SeatTypeVIP, date, constant.DiningSlotDinner, false).
			Return([]model.Table{indoorTable}, nil)

		res, err := svc.GetAvailability(context.Background(), dto.TableAvailabilityRequest{
			Date:     "2026-11-20",
			Slot:     constant.DiningSlotDinner,
			SeatType: constant.SeatTypeVIP,
		})

		assert.NoError(t, err)
		assert.Len(t, res.Tables, 1)
		assert.Equal(t, "T1", res.Tables[0].TableNumber)
		assert.Len(t, res.OtherTables, 1)
		assert.Equal(t, "T7", res.OtherTables[0].TableNumber)
	})

	t.Run("rejects a malformed date before touching the store", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.GetAvailability(context.Background(), dto.TableAvailabilityRequest{
			Date:     "20-11-2026",
			Slot:     constant.DiningSlotLunch,
			SeatType: constant.SeatTypeIndoor,
		})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("repository failure surfaces", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)

		repo.EXPECT().
			FindAvailable(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), true).
			Return(nil, errors.New("db down"))

		_, err := svc.GetAvailability(context.Background(), dto.TableAvailabilityRequest{
			Date:     "2026-11-20",
			Slot:     constant.DiningSlotLunch,
			SeatType: constant.SeatTypeIndoor,
		})

		assert.Error(t, err)
	})
}

func TestTableService_Get(t *testing.T) {
	t.Run("returns the table", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Table{ID: "table-id-1", TableNumber: "T1"}, nil)

		res, err := svc.Get(context.Background(), "table-id-1")

		assert.NoError(t, err)
		assert.Equal(t, "T1", res.TableNumber)
	})

	t.Run("missing table is a not found", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Table{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
