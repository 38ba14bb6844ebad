package http

// FixRequest is the shared request body of the three fix endpoints.
// EnpTarget only matters for /fix/enp and defaults to NXP1.
type FixRequest struct {
	Input     string `json:"input" validate:"required"`
	DryRun    bool   `json:"dry_run"`
	EnpTarget string `json:"enp_target" validate:"omitempty,oneof=NXP1 NXP2"`
}

// GenericErrorResponse for API errors
type GenericErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
