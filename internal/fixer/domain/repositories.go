package domain

import (
	"context"
	"fmt"
	"time"
)

// EnpTarget selects which ENP platform's fixed state the number-pool fix
// writes.
type EnpTarget string

const (
	EnpTargetNXP1 EnpTarget = "NXP1"
	EnpTargetNXP2 EnpTarget = "NXP2"
)

// EnpState is the fixed target state written to a number-pool row.
type EnpState struct {
	SystemID int
	NPRN     int
}

var enpStates = map[EnpTarget]EnpState{
	EnpTargetNXP1: {SystemID: 500, NPRN: 98067},
	EnpTargetNXP2: {SystemID: 510, NPRN: 98019},
}

// State resolves the fixed state for this target. Unknown targets are a
// client error.
func (t EnpTarget) State() (EnpState, error) {
	state, ok := enpStates[t]
	if !ok {
		return EnpState{}, fmt.Errorf("%w: unknown ENP target %q", ErrInvalidFormat, string(t))
	}
	return state, nil
}

// ProvisioningRow mirrors one cli_provisioning row.
type ProvisioningRow struct {
	ID           int64     `json:"id"`
	TargetNumber string    `json:"target_number"`
	TargetSystem string    `json:"target_system"`
	Tenant       string    `json:"tenant"`
	NPRN         int64     `json:"nprn"`
	InsertDate   time.Time `json:"insert_date"`
}

// NumberPoolRepository updates number-pool rows keyed by DN.
type NumberPoolRepository interface {
	// UpdateToFixedState rewrites the row for dn to the fixed target state.
	// A missing row is not an error: it reports updated=false, nil.
	UpdateToFixedState(ctx context.Context, dn string, state EnpState) (updated bool, err error)
}

// RoutingCacheRepository deletes routing keys.
type RoutingCacheRepository interface {
	// DeleteKeys removes each key and reports the per-key deleted count
	// (0 when the key was absent), aligned with keys.
	DeleteKeys(ctx context.Context, keys []string) ([]int64, error)
}

// ProvisioningRepository reads and deletes provisioning rows keyed by
// target number (national form).
type ProvisioningRepository interface {
	FindByTargetNumbers(ctx context.Context, targets []string) ([]ProvisioningRow, error)
	DeleteByTargetNumbers(ctx context.Context, targets []string) (int64, error)
}
