package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isUUID indica si id puede compararse contra una columna UUID.
// Un id con otro formato no existe: se trata como fila ausente y no como error de la base (22P02).
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// rowScanner lo común entre pgx.Row y pgx.Rows para reutilizar las funciones scan*.
type rowScanner interface {
	Scan(dest ...any) error
}
