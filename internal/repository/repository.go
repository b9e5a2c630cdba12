package repository

import "database/sql"

// requireRow converts a zero-row mutation into sql.ErrNoRows so the
// service layer can map it to a not-found error.
func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
