package common

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ToUUID converts a string representation of a UUID into pgtype.UUID.
func ToUUID(value string) (pgtype.UUID, error) {
	var id pgtype.UUID
	parsed, err := uuid.Parse(value)
	if err != nil {
		return id, err
	}
	if err := id.Scan(parsed.String()); err != nil {
		return pgtype.UUID{}, err
	}
	return id, nil
}

// UUIDString converts a pgtype.UUID into a canonical string.
func UUIDString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

// UUIDEqual reports whether two UUID values are both valid and identical.
func UUIDEqual(a, b pgtype.UUID) bool {
	if !a.Valid || !b.Valid {
		return false
	}
	return a.Bytes == b.Bytes
}
