package model

import (
	"time"

	"stayinn/shared/model"
)

const (
	TableName  = "room_reservations"
	EntityName = "reservation"

	SequenceName = "room_reservation_number_seq"

	FieldID            = "id"
	FieldNumber        = "number"
	FieldRoomID        = "room_id"
	FieldUserID        = "user_id"
	FieldGuestName     = "guest_name"
	FieldGuestEmail    = "guest_email"
	FieldGuestPhone    = "guest_phone"
	FieldCheckIn       = "check_in"
	FieldCheckOut      = "check_out"
	FieldGuests        = "guests"
	FieldOfferID       = "offer_id"
	FieldOfferDiscount = "offer_discount"
	FieldTotal         = "total"
	FieldPaidAmount    = "paid_amount"
	FieldStatus        = "status"
	FieldChannel       = "channel"
)

// Reservation holds a room for [CheckIn, CheckOut). CheckOut day is free for
// the next guest, so two stays may share that boundary date.
type Reservation struct {
	ID            string    `db:"id"`
	Number        int64     `db:"number"`
	RoomID        string    `db:"room_id"`
	UserID        *string   `db:"user_id"`
	GuestName     string    `db:"guest_name"`
	GuestEmail    string    `db:"guest_email"`
	GuestPhone    string    `db:"guest_phone"`
	CheckIn       time.Time `db:"check_in"`
	CheckOut      time.Time `db:"check_out"`
	Guests        int       `db:"guests"`
	OfferID       *string   `db:"offer_id"`
	OfferDiscount float64   `db:"offer_discount"`
	Total         float64   `db:"total"`
	PaidAmount    float64   `db:"paid_amount"`
	Status        string    `db:"status"`
	Channel       string    `db:"channel"`
	model.Metadata
}

func (r *Reservation) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}
