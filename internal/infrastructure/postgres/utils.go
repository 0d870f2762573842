package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isSerializationFailure verifica si un error es un fallo de serialización
// (40001) o un deadlock detectado (40P01), ambos reintentables.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
