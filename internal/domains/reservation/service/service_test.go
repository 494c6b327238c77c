package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stayinn/config"
	kafkaMocks "stayinn/infras/kafka/mocks"
	"stayinn/infras/otel/mocks"
	offerModel "stayinn/internal/domains/offer/model"
	offerDto "stayinn/internal/domains/offer/model/dto"
	offerMocks "stayinn/internal/domains/offer/service/mocks"
	rsvMocks "stayinn/internal/domains/reservation/mocks"
	"stayinn/internal/domains/reservation/model"
	"stayinn/internal/domains/reservation/model/dto"
	"stayinn/internal/domains/reservation/service"
	roomMocks "stayinn/internal/domains/room/mocks"
	roomModel "stayinn/internal/domains/room/model"
	tokenService "stayinn/internal/domains/token/service"
	tokenMocks "stayinn/internal/domains/token/service/mocks"
	cacheMocks "stayinn/shared/cache/mocks"
	"stayinn/shared/constant"
	"stayinn/shared/failure"
)

type reservationMocks struct {
	repo   *rsvMocks.MockReservation
	rooms  *roomMocks.MockRoom
	offers *offerMocks.MockOffer
	tokens *tokenMocks.MockToken
	kafka  *kafkaMocks.MockClient
	cache  *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Reservation, reservationMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := reservationMocks{
		repo:   rsvMocks.NewMockReservation(ctrl),
		rooms:  roomMocks.NewMockRoom(ctrl),
		offers: offerMocks.NewMockOffer(ctrl),
		tokens: tokenMocks.NewMockToken(ctrl),
		kafka:  kafkaMocks.NewMockClient(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
	}

	// Cache invalidation and event publishing run on detached goroutines.
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(m.repo, m.rooms, m.offers, m.tokens, m.kafka, &config.Config{}, m.cache, mocks.NewOtel())

	return svc, m
}

func TestReservationService_Create(t *testing.T) {
	deluxeRoom := roomModel.Room{
		ID:       "room-id-1",
		Type:     constant.RoomTypeDeluxe,
		Price:    100,
		Capacity: 2,
		Active:   true,
	}

	baseReq := dto.CreateReservationRequest{
		RoomID:     "room-id-1",
		GuestName:  "Jane Guest",
		GuestEmail: "jane@example.com",
		CheckIn:    "2026-10-10",
		CheckOut:   "2026-10-15",
		Guests:     2,
	}

	t.Run("successful booking snapshots price and starts pending", func(t *testing.T) {
		svc, m := newService(t)

		m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoom, nil)
		m.repo.EXPECT().NextNumber(gomock.Any()).Return(int64(1042), nil)
		m.repo.EXPECT().
			InsertIfAvailable(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rsv model.Reservation) (bool, error) {
				assert.Equal(t, constant.ReservationStatusPending, rsv.Status)
				assert.Equal(t, float64(500), rsv.Total) // 5 nights x 100
				assert.Equal(t, float64(0), rsv.PaidAmount)

				return true, nil
			})

		res, err := svc.Create(context.Background(), baseReq)

		assert.NoError(t, err)
		assert.Equal(t, int64(1042), res.Number)
		assert.Equal(t, constant.ReservationStatusPending, res.Status)
	})

	t.Run("race loser gets a conflict", func(t *testing.T) {
		svc, m := newService(t)

		m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoom, nil)
		m.repo.EXPECT().NextNumber(gomock.Any()).Return(int64(1043), nil)
		m.repo.EXPECT().InsertIfAvailable(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := svc.Create(context.Background(), baseReq)

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("valid offer discounts the snapshot total", func(t *testing.T) {
		svc, m := newService(t)

		req := baseReq
		req.OfferCode = "SUMMER20"

		m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoom, nil)
		m.offers.EXPECT().
			ResolveForBooking(gomock.Any(), "SUMMER20", gomock.Any()).
			Return(offerModel.Offer{ID: "offer-id-1", Code: "SUMMER20", Percent: 20}, nil)
		m.repo.EXPECT().NextNumber(gomock.Any()).Return(int64(1044), nil)
		m.repo.EXPECT().
			InsertIfAvailable(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rsv model.Reservation) (bool, error) {
				assert.Equal(t, float64(400), rsv.Total) // 500 - 20%
				assert.Equal(t, float64(20), rsv.OfferDiscount)

				return true, nil
			})

		_, err := svc.Create(context.Background(), req)

		assert.NoError(t, err)
	})

	t.Run("invalid offer rejects the booking", func(t *testing.T) {
		svc, m := newService(t)

		req := baseReq
		req.OfferCode = "EXPIRED"

		m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoom, nil)
		m.offers.EXPECT().
			ResolveForBooking(gomock.Any(), "EXPIRED", gomock.Any()).
			Return(offerModel.Offer{}, failure.BadRequestFromString("offer is not valid for this booking date"))

		_, err := svc.Create(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("zero-night stay fails before the store is touched", func(t *testing.T) {
		svc, _ := newService(t)

		req := baseReq
		req.CheckOut = req.CheckIn

		_, err := svc.Create(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("unknown room is not found", func(t *testing.T) {
		svc, m := newService(t)

		m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)

		_, err := svc.Create(context.Background(), baseReq)

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("party larger than capacity is rejected", func(t *testing.T) {
		svc, m := newService(t)

		req := baseReq
		req.Guests = 5

		m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoom, nil)

		_, err := svc.Create(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func TestReservationService_Confirm(t *testing.T) {
	pending := model.Reservation{
		ID:     "rsv-id-1",
		Number: 1042,
		RoomID: "room-id-1",
		Status: constant.ReservationStatusPending,
	}

	t.Run("pending reservation accumulates the payment", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			ConfirmPayment(gomock.Any(), "rsv-id-1", float64(150), gomock.Any()).
			Return(true, nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil).AnyTimes()

		err := svc.Confirm(context.Background(), "rsv-id-1", dto.ConfirmReservationRequest{Amount: 150})

		assert.NoError(t, err)
	})

	t.Run("second confirm keeps accumulating", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			ConfirmPayment(gomock.Any(), "rsv-id-1", float64(150), gomock.Any()).
			Return(true, nil).
			Times(2)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil).AnyTimes()

		assert.NoError(t, svc.Confirm(context.Background(), "rsv-id-1", dto.ConfirmReservationRequest{Amount: 150}))
		assert.NoError(t, svc.Confirm(context.Background(), "rsv-id-1", dto.ConfirmReservationRequest{Amount: 150}))
	})

	t.Run("missing reservation is not found", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			ConfirmPayment(gomock.Any(), "missing-id", float64(150), gomock.Any()).
			Return(false, nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)

		err := svc.Confirm(context.Background(), "missing-id", dto.ConfirmReservationRequest{Amount: 150})

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("cancelled reservation conflicts", func(t *testing.T) {
		svc, m := newService(t)

		cancelled := pending
		cancelled.Status = constant.ReservationStatusCancelled

		m.repo.EXPECT().
			ConfirmPayment(gomock.Any(), "rsv-id-1", float64(150), gomock.Any()).
			Return(false, nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)

		err := svc.Confirm(context.Background(), "rsv-id-1", dto.ConfirmReservationRequest{Amount: 150})

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})
}

func TestReservationService_Delete(t *testing.T) {
	pending := model.Reservation{
		ID:     "rsv-id-1",
		Status: constant.ReservationStatusPending,
	}

	t.Run("deletes while the expected status still holds", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
		m.repo.EXPECT().
			DeleteIfStatus(gomock.Any(), "rsv-id-1", constant.ReservationStatusPending).
			Return(true, nil)

		err := svc.Delete(context.Background(), "rsv-id-1", constant.ReservationStatusPending)

		assert.NoError(t, err)
	})

	t.Run("conflicts when the status moved on", func(t *testing.T) {
		svc, m := newService(t)

		confirmed := pending
		confirmed.Status = constant.ReservationStatusConfirmed

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
		m.repo.EXPECT().
			DeleteIfStatus(gomock.Any(), "rsv-id-1", constant.ReservationStatusPending).
			Return(false, nil)

		err := svc.Delete(context.Background(), "rsv-id-1", constant.ReservationStatusPending)

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})
}

func TestReservationService_CancelWithCode(t *testing.T) {
	pending := model.Reservation{
		ID:         "rsv-id-1",
		GuestEmail: "jane@example.com",
		Status:     constant.ReservationStatusPending,
	}

	t.Run("valid code cancels the reservation", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil).AnyTimes()
		m.tokens.EXPECT().
			Consume(gomock.Any(), "rsv-id-1", constant.TokenKindReservationCancellation, "123456").
			Return(nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := svc.CancelWithCode(context.Background(), "rsv-id-1", dto.CancelWithCodeRequest{Code: "123456"})

		assert.NoError(t, err)
	})

	t.Run("rejected code leaves the reservation alone", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
		m.tokens.EXPECT().
			Consume(gomock.Any(), "rsv-id-1", constant.TokenKindReservationCancellation, "000000").
			Return(failure.BadRequestFromString("invalid token"))

		err := svc.CancelWithCode(context.Background(), "rsv-id-1", dto.CancelWithCodeRequest{Code: "000000"})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func TestReservationService_RequestCancellation(t *testing.T) {
	t.Run("issues a fresh code for an active reservation", func(t *testing.T) {
		svc, m := newService(t)

		active := model.Reservation{
			ID:         "rsv-id-1",
			GuestEmail: "jane@example.com",
			Status:     constant.ReservationStatusConfirmed,
		}

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(active, nil)
		m.tokens.EXPECT().
			Issue(gomock.Any(), "rsv-id-1", constant.TokenKindReservationCancellation).
			Return(tokenService.IssuedToken{Value: "654321", ExpiresAt: time.Now().Add(30 * time.Minute)}, nil)

		err := svc.RequestCancellation(context.Background(), "rsv-id-1")

		assert.NoError(t, err)
	})

	t.Run("already cancelled reservation conflicts", func(t *testing.T) {
		svc, m := newService(t)

		cancelled := model.Reservation{
			ID:     "rsv-id-1",
			Status: constant.ReservationStatusCancelled,
		}

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)

		err := svc.RequestCancellation(context.Background(), "rsv-id-1")

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("token issuance failure surfaces", func(t *testing.T) {
		svc, m := newService(t)

		active := model.Reservation{
			ID:     "rsv-id-1",
			Status: constant.ReservationStatusPending,
		}

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(active, nil)
		m.tokens.EXPECT().
			Issue(gomock.Any(), "rsv-id-1", constant.TokenKindReservationCancellation).
			Return(tokenService.IssuedToken{}, errors.New("db down"))

		err := svc.RequestCancellation(context.Background(), "rsv-id-1")

		assert.Error(t, err)
	})
}

func TestReservationService_GetByNumber(t *testing.T) {
	offerID := "offer-id-1"

	t.Run("resolves the room and offer", func(t *testing.T) {
		svc, m := newService(t)

		rsv := model.Reservation{
			ID:      "rsv-id-1",
			Number:  1042,
			RoomID:  "room-id-1",
			OfferID: &offerID,
			Status:  constant.ReservationStatusConfirmed,
		}

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(rsv, nil)
		m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: "room-id-1", RoomNumber: "101"}, nil)
		m.offers.EXPECT().Get(gomock.Any(), offerID).Return(offerDto.OfferResponse{ID: offerID, Code: "SUMMER20"}, nil)

		res, err := svc.GetByNumber(context.Background(), 1042)

		assert.NoError(t, err)
		assert.Equal(t, "101", res.Room.RoomNumber)
		assert.NotNil(t, res.Offer)
		assert.Equal(t, "SUMMER20", res.Offer.Code)
	})

	t.Run("deleted offer leaves the snapshot untouched", func(t *testing.T) {
		svc, m := newService(t)

		rsv := model.Reservation{
			ID:            "rsv-id-1",
			Number:        1042,
			RoomID:        "room-id-1",
			OfferID:       &offerID,
			OfferDiscount: 20,
			Status:        constant.ReservationStatusConfirmed,
		}

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(rsv, nil)
		m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: "room-id-1"}, nil)
		m.offers.EXPECT().Get(gomock.Any(), offerID).Return(offerDto.OfferResponse{}, assert.AnError)

		res, err := svc.GetByNumber(context.Background(), 1042)

		assert.NoError(t, err)
		assert.Nil(t, res.Offer)
		assert.Equal(t, float64(20), res.OfferDiscount)
	})

	t.Run("unknown number is a not found", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)

		_, err := svc.GetByNumber(context.Background(), 9999)

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
