package app

import "github.com/nexfone/portfix/internal/fixer/domain"

// Preview is the expansion listing shared by every fix result. It is
// identical between dry-run and real-run for the same input.
type Preview struct {
	Count           int      `json:"count"`
	ExpandedTargets []string `json:"expanded_targets"`
	ExpandedDNs     []string `json:"expanded_dns"`
}

func newPreview(exp domain.Expansion) Preview {
	return Preview{
		Count:           len(exp.Pairs),
		ExpandedTargets: exp.Nationals(),
		ExpandedDNs:     exp.DNs(),
	}
}

// PairOutcome records the result of one per-DN mutation attempt.
type PairOutcome struct {
	DN      string `json:"dn"`
	Updated bool   `json:"updated"`
	Error   string `json:"error,omitempty"`
}

// NumberPoolResult is the outcome of a number-pool fix.
type NumberPoolResult struct {
	DryRun      bool             `json:"dry_run"`
	OperationID string           `json:"operation_id"`
	EnpTarget   domain.EnpTarget `json:"enp_target"`
	SystemID    int              `json:"system_id"`
	NPRN        int              `json:"nprn"`
	Preview
	// Outcomes and UpdatedDNs are populated on real runs only.
	Outcomes   []PairOutcome `json:"outcomes,omitempty"`
	UpdatedDNs []string      `json:"updated_dns,omitempty"`
}

// AllPairsFailed reports whether a real run failed on every pair.
func (r *NumberPoolResult) AllPairsFailed() bool {
	if r.DryRun || len(r.Outcomes) == 0 {
		return false
	}
	for _, oc := range r.Outcomes {
		if oc.Error == "" {
			return false
		}
	}
	return true
}

// RoutingCacheResult is the outcome of a routing-cache fix.
type RoutingCacheResult struct {
	DryRun      bool   `json:"dry_run"`
	OperationID string `json:"operation_id"`
	Preview
	ExpandedRedisKeys []string `json:"expanded_redis_keys"`
	// DeletedCounts is aligned with ExpandedRedisKeys; real runs only.
	DeletedCounts []int64 `json:"deleted_counts,omitempty"`
}

// ProvisioningResult is the outcome of a provisioning fix. MatchedRows is
// the affected set in both modes; DeletedCount is non-zero only after a
// real run that removed rows.
type ProvisioningResult struct {
	DryRun      bool   `json:"dry_run"`
	OperationID string `json:"operation_id"`
	Preview
	MatchedCount int                      `json:"matched_count"`
	MatchedRows  []domain.ProvisioningRow `json:"matched_rows"`
	DeletedCount int64                    `json:"deleted_count"`
}
