package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nexfone/portfix/internal/fixer/domain"
)

// Application exposes the three fix operations. Each one expands the input
// token once, derives its affected set from that expansion, and either
// returns the preview (dry-run) or applies the backend mutation.
type Application struct {
	numberPool   domain.NumberPoolRepository
	routingCache domain.RoutingCacheRepository
	provisioning domain.ProvisioningRepository
	logger       *slog.Logger
}

// NewApplication creates a new Application instance.
func NewApplication(
	numberPool domain.NumberPoolRepository,
	routingCache domain.RoutingCacheRepository,
	provisioning domain.ProvisioningRepository,
	logger *slog.Logger,
) *Application {
	return &Application{
		numberPool:   numberPool,
		routingCache: routingCache,
		provisioning: provisioning,
		logger:       logger,
	}
}

// FixNumberPool rewrites the number-pool row of every expanded DN to the
// fixed state of the given ENP target. Pairs are mutated independently:
// one failed update does not stop the rest, and a DN with no pool row is
// reported as updated=false, not an error.
func (a *Application) FixNumberPool(ctx context.Context, input string, target domain.EnpTarget, dryRun bool) (*NumberPoolResult, error) {
	exp, err := domain.Expand(input)
	if err != nil {
		return nil, err
	}
	state, err := target.State()
	if err != nil {
		return nil, err
	}

	opID := uuid.New().String()
	log := a.logger.With("operation_id", opID, "operation", "numberpool-fix")

	res := &NumberPoolResult{
		DryRun:      dryRun,
		OperationID: opID,
		EnpTarget:   target,
		SystemID:    state.SystemID,
		NPRN:        state.NPRN,
		Preview:     newPreview(exp),
	}
	if dryRun {
		log.InfoContext(ctx, "number pool fix previewed", "count", res.Count, "enp_target", target)
		return res, nil
	}

	for _, pair := range exp.Pairs {
		updated, err := a.numberPool.UpdateToFixedState(ctx, pair.E164, state)
		outcome := PairOutcome{DN: pair.E164, Updated: updated}
		if err != nil {
			outcome.Error = err.Error()
			log.ErrorContext(ctx, "number pool update failed", "dn", pair.E164, "error", err)
		} else if updated {
			res.UpdatedDNs = append(res.UpdatedDNs, pair.E164)
		}
		res.Outcomes = append(res.Outcomes, outcome)
	}

	log.InfoContext(ctx, "number pool fix applied",
		"count", res.Count, "updated", len(res.UpdatedDNs), "enp_target", target)
	return res, nil
}

// FixRoutingCache deletes the routing key of every expanded DN. Absent
// keys delete to a zero count and are not errors.
func (a *Application) FixRoutingCache(ctx context.Context, input string, dryRun bool) (*RoutingCacheResult, error) {
	exp, err := domain.Expand(input)
	if err != nil {
		return nil, err
	}

	opID := uuid.New().String()
	log := a.logger.With("operation_id", opID, "operation", "routing-cache-fix")

	res := &RoutingCacheResult{
		DryRun:            dryRun,
		OperationID:       opID,
		Preview:           newPreview(exp),
		ExpandedRedisKeys: exp.RoutingKeys(),
	}
	if dryRun {
		log.InfoContext(ctx, "routing cache fix previewed", "count", res.Count)
		return res, nil
	}

	counts, err := a.routingCache.DeleteKeys(ctx, res.ExpandedRedisKeys)
	if err != nil {
		log.ErrorContext(ctx, "routing key deletion failed", "error", err)
		return nil, fmt.Errorf("deleting routing keys: %w", err)
	}
	res.DeletedCounts = counts

	log.InfoContext(ctx, "routing cache fix applied", "count", res.Count)
	return res, nil
}

// FixProvisioning removes every provisioning row whose target number is in
// the expansion. The matching rows are read up front in both modes, so the
// dry-run listing is exactly what a real run deletes. Zero matches is a
// successful empty result.
func (a *Application) FixProvisioning(ctx context.Context, input string, dryRun bool) (*ProvisioningResult, error) {
	exp, err := domain.Expand(input)
	if err != nil {
		return nil, err
	}

	opID := uuid.New().String()
	log := a.logger.With("operation_id", opID, "operation", "provisioning-fix")

	rows, err := a.provisioning.FindByTargetNumbers(ctx, exp.Nationals())
	if err != nil {
		log.ErrorContext(ctx, "provisioning row lookup failed", "error", err)
		return nil, fmt.Errorf("finding provisioning rows: %w", err)
	}
	if rows == nil {
		rows = []domain.ProvisioningRow{}
	}

	res := &ProvisioningResult{
		DryRun:       dryRun,
		OperationID:  opID,
		Preview:      newPreview(exp),
		MatchedCount: len(rows),
		MatchedRows:  rows,
	}
	if dryRun {
		log.InfoContext(ctx, "provisioning fix previewed", "count", res.Count, "matched", res.MatchedCount)
		return res, nil
	}

	deleted, err := a.provisioning.DeleteByTargetNumbers(ctx, exp.Nationals())
	if err != nil {
		log.ErrorContext(ctx, "provisioning row deletion failed", "error", err)
		return nil, fmt.Errorf("deleting provisioning rows: %w", err)
	}
	res.DeletedCount = deleted

	log.InfoContext(ctx, "provisioning fix applied",
		"count", res.Count, "matched", res.MatchedCount, "deleted", deleted)
	return res, nil
}
