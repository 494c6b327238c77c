package model

import (
	"time"

	"stayinn/shared/model"
)

const (
	TableName  = "tokens"
	EntityName = "token"

	FieldID        = "id"
	FieldSubject   = "subject"
	FieldKind      = "kind"
	FieldValue     = "value"
	FieldExpiresAt = "expires_at"
)

// Token is a short-lived secret bound to a subject (an email address or a
// reservation id) and a kind. At most one row exists per (subject, kind).
type Token struct {
	ID        string    `db:"id"`
	Subject   string    `db:"subject"`
	Kind      string    `db:"kind"`
	Value     string    `db:"value"`
	ExpiresAt time.Time `db:"expires_at"`
	model.Metadata
}

func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
