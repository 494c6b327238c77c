package dto

import (
	"time"

	"stayinn/internal/domains/dining/model"
	offerDto "stayinn/internal/domains/offer/model/dto"
	tableDto "stayinn/internal/domains/table/model/dto"
	"stayinn/shared"
	"stayinn/shared/constant"
	gDto "stayinn/shared/dto"
	"stayinn/shared/failure"
	gModel "stayinn/shared/model"
	"stayinn/shared/timezone"

	"github.com/google/uuid"
)

type FoodOrderLineRequest struct {
	FoodID         string `json:"food_id"         validate:"required,uuid4"`
	Quantity       int    `json:"quantity"        validate:"required,min=1,max=20"`
	SpecialRequest string `json:"special_request" validate:"omitempty,max=200"`
}

type CreateTableReservationRequest struct {
	TableID    string                 `json:"table_id"    validate:"required,uuid4"`
	GuestName  string                 `json:"guest_name"  validate:"required,max=100"`
	GuestEmail string                 `json:"guest_email" validate:"required,email,max=100"`
	GuestPhone string                 `json:"guest_phone" validate:"omitempty,max=20"`
	Date       string                 `json:"date"        validate:"required,datetime=2006-01-02"`
	Slot       string                 `json:"slot"        validate:"required,oneof=lunch dinner"`
	Guests     int                    `json:"guests"      validate:"required,min=1"`
	OfferCode  string                 `json:"offer_code"  validate:"omitempty,max=30"`
	Channel    string                 `json:"channel"     validate:"omitempty,oneof=online offline"`
	Lines      []FoodOrderLineRequest `json:"lines"       validate:"omitempty,max=30,dive"`
}

// BookingDate parses the reservation date and rejects days already in the
// past, before anything touches the store.
func (c *CreateTableReservationRequest) BookingDate() (time.Time, error) {
	date, err := time.Parse(constant.DateOnlyFormat, c.Date)
	if err != nil {
		return date, failure.BadRequestFromString("invalid reservation date") //nolint:wrapcheck
	}

	today := timezone.Now().Truncate(24 * time.Hour)
	if date.Before(today) {
		return date, failure.BadRequestFromString("reservation date is in the past") //nolint:wrapcheck
	}

	return date, nil
}

func (c *CreateTableReservationRequest) ToModel(number int64, userID *string, date time.Time, total, offerDiscount float64, offerID *string, user string) model.TableReservation {
	channel := c.Channel
	if channel == constant.Empty {
		channel = constant.ReservationChannelOnline
	}

	return model.TableReservation{
		ID:            uuid.NewString(),
		Number:        number,
		TableID:       c.TableID,
		UserID:        userID,
		GuestName:     c.GuestName,
		GuestEmail:    c.GuestEmail,
		GuestPhone:    c.GuestPhone,
		Date:          date,
		Slot:          c.Slot,
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

type ConfirmTableReservationRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type UpdateTableReservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

type FoodOrderLineResponse struct {
	ID             string  `json:"id"`
	FoodID         string  `json:"food_id"`
	FoodName       string  `json:"food_name"`
	Quantity       int     `json:"quantity"`
	Price          float64 `json:"price"`
	SpecialRequest string  `json:"special_request"`
}

func (r *FoodOrderLineResponse) FromModel(model model.FoodOrderLine) {
	r.ID = model.ID
	r.FoodID = model.FoodID
	r.FoodName = model.FoodName
	r.Quantity = model.Quantity
	r.Price = model.Price
	r.SpecialRequest = model.SpecialRequest
}

type TableReservationResponse struct {
	ID            string                  `json:"id"`
	Number        int64                   `json:"number"`
	TableID       string                  `json:"table_id"`
	GuestName     string                  `json:"guest_name"`
	GuestEmail    string                  `json:"guest_email"`
	GuestPhone    string                  `json:"guest_phone"`
	Date          string                  `json:"date"`
	Slot          string                  `json:"slot"`
	Guests        int                     `json:"guests"`
	OfferID       *string                 `json:"offer_id"`
	OfferDiscount float64                 `json:"offer_discount"`
	Total         float64                 `json:"total"`
	PaidAmount    float64                 `json:"paid_amount"`
	Status        string                  `json:"status"`
	Channel       string                  `json:"channel"`
	Lines         []FoodOrderLineResponse `json:"lines,omitempty"`
	gDto.Metadata
}

func (r *TableReservationResponse) FromModel(model model.TableReservation) {
	r.ID = model.ID
	r.Number = model.Number
	r.TableID = model.TableID
	r.GuestName = model.GuestName
	r.GuestEmail = model.GuestEmail
	r.GuestPhone = model.GuestPhone
	r.Date = model.Date.Format(constant.DateOnlyFormat)
	r.Slot = model.Slot
	r.Guests = model.Guests
	r.OfferID = model.OfferID
	r.OfferDiscount = model.OfferDiscount
	r.Total = model.Total
	r.PaidAmount = model.PaidAmount
	r.Status = model.Status
	r.Channel = model.Channel
	r.Metadata.FromModel(model.Metadata)
}

func (r *TableReservationResponse) WithLines(lines []model.FoodOrderLine) {
	r.Lines = make([]FoodOrderLineResponse, len(lines))
	for i, line := range lines {
		r.Lines[i].FromModel(line)
	}
}

// TableReservationDetailResponse is the public-number lookup shape, with the
// booked table and any offer resolved alongside the stored snapshot.
type TableReservationDetailResponse struct {
	TableReservationResponse
	Table tableDto.TableResponse  `json:"table"`
	Offer *offerDto.OfferResponse `json:"offer,omitempty"`
}

type GetTableReservationsResponse struct {
	Reservations []TableReservationResponse `json:"reservations"`
	TotalPage    int                        `json:"total_page"`
	TotalData    int                        `json:"total_data"`
}

func (r *GetTableReservationsResponse) FromModels(models []model.TableReservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]TableReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

// TableReservationEvent is the payload published to Kafka on lifecycle
// changes.
type TableReservationEvent struct {
	Event      string  `json:"event"`
	ID         string  `json:"id"`
	Number     int64   `json:"number"`
	TableID    string  `json:"table_id"`
	GuestEmail string  `json:"guest_email"`
	Date       string  `json:"date"`
	Slot       string  `json:"slot"`
	Total      float64 `json:"total"`
	PaidAmount float64 `json:"paid_amount"`
	Status     string  `json:"status"`
	OccurredAt string  `json:"occurred_at"`
}

const (
	EventTableReservationCreated   = "table_reservation.created"
	EventTableReservationConfirmed = "table_reservation.confirmed"
	EventTableReservationCancelled = "table_reservation.cancelled"
	EventTableReservationDeleted   = "table_reservation.deleted"
)
