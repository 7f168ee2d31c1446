package repository

import "database/sql"

// expectRow turns "no row matched" into notFound. Owner-scoped writes use it so
// a row that exists but belongs to someone else looks the same as a missing one.
func expectRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
