package model

import (
	"stayinn/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldRoomNumber  = "room_number"
	FieldType        = "type"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldCapacity    = "capacity"
	FieldBeds        = "beds"
	FieldFeatures    = "features"
	FieldImages      = "images"
	FieldActive      = "active"
)

type Room struct {
	ID          string         `db:"id"`
	RoomNumber  string         `db:"room_number"`
	Type        string         `db:"type"`
	Description string         `db:"description"`
	Price       float64        `db:"price"`
	Capacity    int            `db:"capacity"`
	Beds        pq.StringArray `db:"beds"`
	Features    pq.StringArray `db:"features"`
	Images      pq.StringArray `db:"images"`
	Active      bool           `db:"active"`
	model.Metadata
}
