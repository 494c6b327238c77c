package model

import (
	"stayinn/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "tables"
	EntityName = "table"

	FieldID          = "id"
	FieldTableNumber = "table_number"
	FieldSeatType    = "seat_type"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldSeats       = "seats"
	FieldImages      = "images"
	FieldActive      = "active"
)

type Table struct {
	ID          string         `db:"id"`
	TableNumber string         `db:"table_number"`
	SeatType    string         `db:"seat_type"`
	Description string         `db:"description"`
	Price       float64        `db:"price"`
	Seats       int            `db:"seats"`
	Images      pq.StringArray `db:"images"`
	Active      bool           `db:"active"`
	model.Metadata
}
