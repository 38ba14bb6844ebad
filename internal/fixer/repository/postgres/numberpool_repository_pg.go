package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexfone/portfix/internal/fixer/domain"
)

// Fixed state written to every corrected number-pool row. The far-future
// reservation timestamp parks the number; product 1 is the internal
// porting product.
var fixedReservationTime = time.Date(2050, time.January, 1, 0, 0, 0, 0, time.UTC)

const fixedProductID = 1

type PgNumberPoolRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPgNumberPoolRepository(db *pgxpool.Pool, logger *slog.Logger) *PgNumberPoolRepository {
	return &PgNumberPoolRepository{db: db, logger: logger}
}

func (r *PgNumberPoolRepository) UpdateToFixedState(ctx context.Context, dn string, state domain.EnpState) (bool, error) {
	query := `
		UPDATE numbers
		SET reservation_tstamp = $1,
		    product_id = $2,
		    system_id = $3,
		    nprn = $4,
		    outporting_tstamp = NULL,
		    lastupdated_tstamp = NOW()
		WHERE dn = $5
	`
	tag, err := r.db.Exec(ctx, query, fixedReservationTime, fixedProductID, state.SystemID, state.NPRN, dn)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating number pool row", "error", err, "dn", dn)
		return false, err
	}
	if tag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "No number pool row for dn", "dn", dn)
		return false, nil
	}
	r.logger.InfoContext(ctx, "Number pool row reset to fixed state", "dn", dn, "system_id", state.SystemID, "nprn", state.NPRN)
	return true, nil
}
