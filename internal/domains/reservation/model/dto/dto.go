package dto

import (
	"time"

	offerDto "stayinn/internal/domains/offer/model/dto"
	"stayinn/internal/domains/reservation/model"
	roomDto "stayinn/internal/domains/room/model/dto"
	"stayinn/shared"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	"stayinn/shared/failure"
	gModel "stayinn/shared/model"
	"stayinn/shared/timezone"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	RoomID     string `json:"room_id"     validate:"required,uuid4"`
	GuestName  string `json:"guest_name"  validate:"required,max=100"`
	GuestEmail string `json:"guest_email" validate:"required,email,max=100"`
	GuestPhone string `json:"guest_phone" validate:"omitempty,max=20"`
	CheckIn    string `json:"check_in"    validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out"   validate:"required,datetime=2006-01-02"`
	Guests     int    `json:"guests"      validate:"required,min=1"`
	OfferCode  string `json:"offer_code"  validate:"omitempty,max=30"`
	Channel    string `json:"channel"     validate:"omitempty,oneof=online offline"`
}

// StayRange parses and orders the stay dates. A zero-night stay is invalid,
// so equal dates are rejected here, before anything touches the store.
func (c *CreateReservationRequest) StayRange() (checkIn, checkOut time.Time, err error) {
	checkIn, err = time.Parse(constant.DateOnlyFormat, c.CheckIn)
	if err != nil {
		return checkIn, checkOut, failure.BadRequestFromString("invalid check_in date") //nolint:wrapcheck
	}

	checkOut, err = time.Parse(constant.DateOnlyFormat, c.CheckOut)
	if err != nil {
		return checkIn, checkOut, failure.BadRequestFromString("invalid check_out date") //nolint:wrapcheck
	}

	if !checkIn.Before(checkOut) {
		return checkIn, checkOut, failure.BadRequestFromString("check_in must be before check_out") //nolint:wrapcheck
	}

	return checkIn, checkOut, nil
}

func (c *CreateReservationRequest) ToModel(number int64, userID *string, checkIn, checkOut time.Time, total, offerDiscount float64, offerID *string, user string) model.Reservation {
	channel := c.Channel
	if channel == constant.Empty {
		channel = constant.ReservationChannelOnline
	}

	return model.Reservation{
		ID:            uuid.NewString(),
		Number:        number,
		RoomID:        c.RoomID,
		UserID:        userID,
		GuestName:     c.GuestName,
		GuestEmail:    c.GuestEmail,
		GuestPhone:    c.GuestPhone,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        c.Guests,
		OfferID:       offerID,
		OfferDiscount: offerDiscount,
		Total:         total,
		PaidAmount:    0,
		Status:        constant.ReservationStatusPending,
		Channel:       channel,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ConfirmReservationRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type UpdateReservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

type CancelWithCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type ReservationResponse struct {
	ID            string  `json:"id"`
	Number        int64   `json:"number"`
	RoomID        string  `json:"room_id"`
	GuestName     string  `json:"guest_name"`
	GuestEmail    string  `json:"guest_email"`
	GuestPhone    string  `json:"guest_phone"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	Nights        int     `json:"nights"`
	Guests        int     `json:"guests"`
	OfferID       *string `json:"offer_id"`
	OfferDiscount float64 `json:"offer_discount"`
	Total         float64 `json:"total"`
	PaidAmount    float64 `json:"paid_amount"`
	Status        string  `json:"status"`
	Channel       string  `json:"channel"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.Number = model.Number
	r.RoomID = model.RoomID
	r.GuestName = model.GuestName
	r.GuestEmail = model.GuestEmail
	r.GuestPhone = model.GuestPhone
	r.CheckIn = model.CheckIn.Format(constant.DateOnlyFormat)
	r.CheckOut = model.CheckOut.Format(constant.DateOnlyFormat)
	r.Nights = model.Nights()
	r.Guests = model.Guests
	r.OfferID = model.OfferID
	r.OfferDiscount = model.OfferDiscount
	r.Total = model.Total
	r.PaidAmount = model.PaidAmount
	r.Status = model.Status
	r.Channel = model.Channel
	r.Metadata.FromModel(model.Metadata)
}

// ReservationDetailResponse is the public-number lookup shape, with the room
// and any offer resolved alongside the stored snapshot.
type ReservationDetailResponse struct {
	ReservationResponse
	Room  roomDto.RoomResponse    `json:"room"`
	Offer *offerDto.OfferResponse `json:"offer,omitempty"`
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

// ReservationEvent is the payload published to Kafka on lifecycle changes.
type ReservationEvent struct {
	Event      string  `json:"event"`
	ID         string  `json:"id"`
	Number     int64   `json:"number"`
	RoomID     string  `json:"room_id"`
	GuestEmail string  `json:"guest_email"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	Total      float64 `json:"total"`
	PaidAmount float64 `json:"paid_amount"`
	Status     string  `json:"status"`
	OccurredAt string  `json:"occurred_at"`
}

const (
	EventReservationCreated          = "reservation.created"
	EventReservationConfirmed        = "reservation.confirmed"
	EventReservationCancelled        = "reservation.cancelled"
	EventReservationDeleted          = "reservation.deleted"
	EventReservationCancellationCode = "reservation.cancellation_code"
)

// CancellationCodeEvent carries the emailed cancellation code. The mail
// transport consumes it downstream.
type CancellationCodeEvent struct {
	Event      string `json:"event"`
	ID         string `json:"id"`
	GuestEmail string `json:"guest_email"`
	Code       string `json:"code"`
	ExpiresAt  string `json:"expires_at"`
}
