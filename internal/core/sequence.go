package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// nextOrderNumberTx allocates the next number in a scope ("SO", "PO") within
// the caller's transaction and formats it as PREFIX-NNNN.
//
// The sequence row is seeded once from the highest numeric suffix already
// present in the given table/column, so pre-existing data continues where it
// left off (max SO-0007 hands out SO-0008 next). After seeding, the UPDATE
// takes a row lock on the scope row: concurrent allocations serialize there
// and can never observe the same last_number.
func nextOrderNumberTx(ctx context.Context, tx pgx.Tx, scope, table, column string) (string, error) {
	seed := fmt.Sprintf(`
		INSERT INTO order_sequences (scope, last_number)
		SELECT $1, COALESCE(MAX(NULLIF(substring(%s FROM '%s-(\d+)'), '')::bigint), 0)
		FROM %s
		ON CONFLICT (scope) DO NOTHING`, column, scope, table)
	if _, err := tx.Exec(ctx, seed, scope); err != nil {
		return "", fmt.Errorf("seed %s sequence: %w", scope, err)
	}

	var n int64
	err := tx.QueryRow(ctx, `
		UPDATE order_sequences
		SET last_number = last_number + 1
		WHERE scope = $1
		RETURNING last_number`,
		scope,
	).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("allocate %s number: %w", scope, err)
	}

	return fmt.Sprintf("%s-%04d", scope, n), nil
}
