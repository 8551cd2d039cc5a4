package database

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"devconnect-api/internal/store"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRep      = "22P02"
)

var uniqueConstraintFields = map[string]string{
	"users_pkey":             "id",
	"users_email_key":        "email",
	"users_phone_number_key": "phone",
	"posts_pkey":             "id",
	"likes_post_user_key":    "like",
	"comments_pkey":          "id",
}

var foreignKeyEntities = map[string]string{
	"posts_author_id_fkey":    "User",
	"likes_post_id_fkey":      "Post",
	"likes_user_id_fkey":      "User",
	"comments_post_id_fkey":   "Post",
	"comments_author_id_fkey": "User",
}

// translate maps driver errors onto the store sentinels and wraps everything else with op.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			field, ok := uniqueConstraintFields[pgErr.ConstraintName]
			if !ok {
				field = pgErr.ConstraintName
			}
			return &store.DuplicateError{Field: field}
		case pgForeignKeyViolation:
			if entity, ok := foreignKeyEntities[pgErr.ConstraintName]; ok {
				return &store.MissingReferenceError{Entity: entity}
			}
			return store.ErrNotFound
		case pgInvalidTextRep:
			// A malformed uuid cannot match any row.
			return store.ErrNotFound
		}
	}

	return errors.Wrap(err, op)
}
