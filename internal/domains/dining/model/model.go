package model

import (
	"fmt"
	"time"

	foodModel "stayinn/internal/domains/food/model"
	"stayinn/shared/model"
)

const (
	TableName  = "table_reservations"
	EntityName = "table_reservation"

	SequenceName = "table_reservation_number_seq"

	FieldID            = "id"
	FieldNumber        = "number"
	FieldTableID       = "table_id"
	FieldUserID        = "user_id"
	FieldGuestName     = "guest_name"
	FieldGuestEmail    = "guest_email"
	FieldGuestPhone    = "guest_phone"
	FieldDate          = "date"
	FieldSlot          = "slot"
	FieldGuests        = "guests"
	FieldOfferID       = "offer_id"
	FieldOfferDiscount = "offer_discount"
	FieldTotal         = "total"
	FieldPaidAmount    = "paid_amount"
	FieldStatus        = "status"
	FieldChannel       = "channel"
)

const (
	LineTableName  = "food_order_lines"
	LineEntityName = "food_order_line"

	LineFieldID            = "id"
	LineFieldReservationID = "reservation_id"
	LineFieldFoodID        = "food_id"
)

// TableReservation holds a table for one date and slot. At most one active
// reservation may exist per (table, date, slot).
type TableReservation struct {
	ID            string    `db:"id"`
	Number        int64     `db:"number"`
	TableID       string    `db:"table_id"`
	UserID        *string   `db:"user_id"`
	GuestName     string    `db:"guest_name"`
	GuestEmail    string    `db:"guest_email"`
	GuestPhone    string    `db:"guest_phone"`
	Date          time.Time `db:"date"`
	Slot          string    `db:"slot"`
	Guests        int       `db:"guests"`
	OfferID       *string   `db:"offer_id"`
	OfferDiscount float64   `db:"offer_discount"`
	Total         float64   `db:"total"`
	PaidAmount    float64   `db:"paid_amount"`
	Status        string    `db:"status"`
	Channel       string    `db:"channel"`
	model.Metadata
}

// FoodOrderLine is one pre-ordered dish on a table reservation. Price is the
// per-item price snapshotted at booking time.
type FoodOrderLine struct {
	ID             string  `db:"id"`
	ReservationID  string  `db:"reservation_id"`
	FoodID         string  `db:"food_id"`
	Quantity       int     `db:"quantity"`
	Price          float64 `db:"price"`
	SpecialRequest string  `db:"special_request"`
	FoodName       string  `db:"food_name" table:"foods" column:"name"`
	model.Metadata
}

func (FoodOrderLine) GetJoinQuery() string {
	return fmt.Sprintf("JOIN %s ON %s.%s = %s.%s",
		foodModel.TableName, foodModel.TableName, foodModel.FieldID, LineTableName, LineFieldFoodID)
}
