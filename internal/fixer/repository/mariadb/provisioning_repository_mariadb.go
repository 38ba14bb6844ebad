package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nexfone/portfix/internal/fixer/domain"
)

type MariaDBProvisioningRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewMariaDBProvisioningRepository(db *sql.DB, logger *slog.Logger) *MariaDBProvisioningRepository {
	return &MariaDBProvisioningRepository{db: db, logger: logger}
}

func (r *MariaDBProvisioningRepository) FindByTargetNumbers(ctx context.Context, targets []string) ([]domain.ProvisioningRow, error) {
	query := fmt.Sprintf(`
		SELECT id, target_number, target_system, tenant, nprn, insert_date
		FROM cli_provisioning
		WHERE target_number IN (%s)
	`, placeholders(len(targets)))

	rows, err := r.db.QueryContext(ctx, query, toArgs(targets)...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error querying provisioning rows", "error", err, "targets", len(targets))
		return nil, err
	}
	defer rows.Close()

	var out []domain.ProvisioningRow
	for rows.Next() {
		var (
			row          domain.ProvisioningRow
			targetSystem sql.NullString
			tenant       sql.NullString
			nprn         sql.NullInt64
		)
		if err := rows.Scan(&row.ID, &row.TargetNumber, &targetSystem, &tenant, &nprn, &row.InsertDate); err != nil {
			r.logger.ErrorContext(ctx, "Error scanning provisioning row", "error", err)
			return nil, err
		}
		row.TargetSystem = targetSystem.String
		row.Tenant = tenant.String
		row.NPRN = nprn.Int64
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating provisioning rows", "error", err)
		return nil, err
	}
	return out, nil
}

func (r *MariaDBProvisioningRepository) DeleteByTargetNumbers(ctx context.Context, targets []string) (int64, error) {
	query := fmt.Sprintf(
		`DELETE FROM cli_provisioning WHERE target_number IN (%s)`,
		placeholders(len(targets)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error starting provisioning delete transaction", "error", err)
		return 0, err
	}

	res, err := tx.ExecContext(ctx, query, toArgs(targets)...)
	if err != nil {
		tx.Rollback()
		r.logger.ErrorContext(ctx, "Error deleting provisioning rows", "error", err, "targets", len(targets))
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		r.logger.ErrorContext(ctx, "Error committing provisioning delete", "error", err)
		return 0, err
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	r.logger.InfoContext(ctx, "Provisioning rows deleted", "deleted", deleted, "targets", len(targets))
	return deleted, nil
}

// placeholders builds "?, ?, ?" for an IN clause. n is always >= 1: an
// expansion never produces an empty target list.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(targets []string) []any {
	args := make([]any, len(targets))
	for i, t := range targets {
		args[i] = t
	}
	return args
}
