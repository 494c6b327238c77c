package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stayinn/config"
	kafkaMocks "stayinn/infras/kafka/mocks"
	"stayinn/infras/otel/mocks"
	diningMocks "stayinn/internal/domains/dining/mocks"
	"stayinn/internal/domains/dining/model"
	"stayinn/internal/domains/dining/model/dto"
	"stayinn/internal/domains/dining/service"
	foodMocks "stayinn/internal/domains/food/mocks"
	foodModel "stayinn/internal/domains/food/model"
	offerDto "stayinn/internal/domains/offer/model/dto"
	offerMocks "stayinn/internal/domains/offer/service/mocks"
	tableMocks "stayinn/internal/domains/table/mocks"
	tableModel "stayinn/internal/domains/table/model"
	cacheMocks "stayinn/shared/cache/mocks"
	"stayinn/shared/constant"
	"stayinn/shared/failure"
)

type diningServiceMocks struct {
	repo   *diningMocks.MockDining
	tables *tableMocks.MockTable
	foods  *foodMocks.MockFood
	offers *offerMocks.MockOffer
	kafka  *kafkaMocks.MockClient
	cache  *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Dining, diningServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := diningServiceMocks{
		repo:   diningMocks.NewMockDining(ctrl),
		tables: tableMocks.NewMockTable(ctrl),
		foods:  foodMocks.NewMockFood(ctrl),
		offers: offerMocks.NewMockOffer(ctrl),
		kafka:  kafkaMocks.NewMockClient(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
	}

	// Cache invalidation and event publishing run on detached goroutines.
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(m.repo, m.tables, m.foods, m.offers, m.kafka, &config.Config{}, m.cache, mocks.NewOtel())

	return svc, m
}

func TestDiningService_Create(t *testing.T) {
	vipTable := tableModel.Table{
		ID:       "table-id-1",
		SeatType: constant.SeatTypeVIP,
		Price:    50,
		Seats:    4,
		Active:   true,
	}

	futureDate := time.Now().AddDate(0, 1, 0).Format(constant.DateOnlyFormat)

	baseReq := dto.CreateTableReservationRequest{
		TableID:    "table-id-1",
		GuestName:  "Jane Guest",
		GuestEmail: "jane@example.com",
		Date:       futureDate,
		Slot:       constant.DiningSlotDinner,
		Guests:     2,
	}

	t.Run("successful booking snapshots line prices", func(t *testing.T) {
		svc, m := newService(t)

		req := baseReq
		req.Lines = []dto.FoodOrderLineRequest{
			{FoodID: "food-id-1", Quantity: 2},
		}

		m.tables.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vipTable, nil)
		m.foods.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(foodModel.Food{ID: "food-id-1", Name: "Nasi Goreng", Price: 12, Active: true}, nil)
		m.repo.EXPECT().NextNumber(gomock.Any()).Return(int64(77), nil)
		m.repo.EXPECT().
			InsertIfAvailable(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rsv model.TableReservation, lines []model.FoodOrderLine) (bool, error) {
				assert.Equal(t, float64(74), rsv.Total) // 50 + 2 x 12
				assert.Len(t, lines, 1)
				assert.Equal(t, float64(12), lines[0].Price)
				assert.Equal(t, rsv.ID, lines[0].ReservationID)

				return true, nil
			})

		res, err := svc.Create(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, int64(77), res.Number)
		assert.Equal(t, constant.ReservationStatusPending, res.Status)
		assert.Len(t, res.Lines, 1)
	})

	t.Run("slot already taken conflicts", func(t *testing.T) {
		svc, m := newService(t)

		m.tables.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vipTable, nil)
		m.repo.EXPECT().NextNumber(gomock.Any()).Return(int64(78), nil)
		m.repo.EXPECT().InsertIfAvailable(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := svc.Create(context.Background(), baseReq)

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("past date fails before the store is touched", func(t *testing.T) {
		svc, _ := newService(t)

		req := baseReq
		req.Date = "2020-01-01"

		_, err := svc.Create(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("unknown dish rejects the order", func(t *testing.T) {
		svc, m := newService(t)

		req := baseReq
		req.Lines = []dto.FoodOrderLineRequest{
			{FoodID: "food-id-missing", Quantity: 1},
		}

		m.tables.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vipTable, nil)
		m.foods.EXPECT().Get(gomock.Any(), gomock.Any()).Return(foodModel.Food{}, nil)

		_, err := svc.Create(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("party larger than the table is rejected", func(t *testing.T) {
		svc, m := newService(t)

		req := baseReq
		req.Guests = 6

		m.tables.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vipTable, nil)

		_, err := svc.Create(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func TestDiningService_Confirm(t *testing.T) {
	pending := model.TableReservation{
		ID:     "rsv-id-1",
		Status: constant.ReservationStatusPending,
	}

	t.Run("pending reservation accumulates the payment", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			ConfirmPayment(gomock.Any(), "rsv-id-1", float64(74), gomock.Any()).
			Return(true, nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil).AnyTimes()

		err := svc.Confirm(context.Background(), "rsv-id-1", dto.ConfirmTableReservationRequest{Amount: 74})

		assert.NoError(t, err)
	})

	t.Run("cancelled reservation conflicts", func(t *testing.T) {
		svc, m := newService(t)

		cancelled := pending
		cancelled.Status = constant.ReservationStatusCancelled

		m.repo.EXPECT().
			ConfirmPayment(gomock.Any(), "rsv-id-1", float64(74), gomock.Any()).
			Return(false, nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)

		err := svc.Confirm(context.Background(), "rsv-id-1", dto.ConfirmTableReservationRequest{Amount: 74})

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})
}

func TestDiningService_Get(t *testing.T) {
	t.Run("resolves the reservation with its lines", func(t *testing.T) {
		svc, m := newService(t)

		rsv := model.TableReservation{
			ID:     "rsv-id-1",
			Status: constant.ReservationStatusConfirmed,
		}
		lines := []model.FoodOrderLine{
			{ID: "line-id-1", ReservationID: "rsv-id-1", FoodName: "Nasi Goreng", Quantity: 2, Price: 12},
		}

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(rsv, nil)
		m.repo.EXPECT().GetLines(gomock.Any(), "rsv-id-1").Return(lines, nil)

		res, err := svc.Get(context.Background(), "rsv-id-1")

		assert.NoError(t, err)
		assert.Len(t, res.Lines, 1)
		assert.Equal(t, "Nasi Goreng", res.Lines[0].FoodName)
	})

	t.Run("missing reservation is not found", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.TableReservation{}, nil)

		_, err := svc.Get(context.Background(), "rsv-id-missing")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestDiningService_GetByNumber(t *testing.T) {
	offerID := "offer-id-1"

	t.Run("resolves the table, lines, and offer", func(t *testing.T) {
		svc, m := newService(t)

		rsv := model.TableReservation{
			ID:      "rsv-id-1",
			Number:  1042,
			TableID: "table-id-1",
			OfferID: &offerID,
			Status:  constant.ReservationStatusConfirmed,
		}
		lines := []model.FoodOrderLine{
			{ID: "line-id-1", ReservationID: "rsv-id-1", FoodName: "Nasi Goreng", Quantity: 2, Price: 12},
		}

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(rsv, nil)
		m.tables.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tableModel.Table{ID: "table-id-1", TableNumber: "T1"}, nil)
		m.repo.EXPECT().GetLines(gomock.Any(), "rsv-id-1").Return(lines, nil)
		m.offers.EXPECT().Get(gomock.Any(), offerID).Return(offerDto.OfferResponse{ID: offerID, Code: "SUMMER20"}, nil)

		res, err := svc.GetByNumber(context.Background(), 1042)

		assert.NoError(t, err)
		assert.Equal(t, "T1", res.Table.TableNumber)
		assert.Len(t, res.Lines, 1)
		assert.Equal(t, "Nasi Goreng", res.Lines[0].FoodName)
		assert.NotNil(t, res.Offer)
		assert.Equal(t, "SUMMER20", res.Offer.Code)
	})

	t.Run("unknown number is a not found", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.TableReservation{}, nil)

		_, err := svc.GetByNumber(context.Background(), 9999)

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
