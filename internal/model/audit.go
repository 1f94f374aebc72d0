package model

// Audit actions.
const (
	ActionUpload  = "Upload"
	ActionSearch  = "Search"
	ActionResetDB = "Reset DB"
)

// Audit outcomes.
const (
	OutcomeSuccess = "Success"
	OutcomeAllowed = "Allowed"
	OutcomeDenied  = "DENIED_SECURITY"
	OutcomeNoData  = "No Data"
	OutcomeFailure = "Failure"
)

// AuditEvent is one append-only audit row. Never mutated after creation.
type AuditEvent struct {
	ID      int64  `json:"id"`
	Ts      int64  `json:"ts"`
	Actor   string `json:"actor"`
	Role    string `json:"role"`
	Action  string `json:"action"`
	Detail  string `json:"detail"`
	Outcome string `json:"outcome"`
}

// SearchStatus is the terminal outcome class of a secure retrieval call.
type SearchStatus string

const (
	StatusSuccess SearchStatus = "success"
	StatusDenied  SearchStatus = "denied"
	StatusNoData  SearchStatus = "no_data"
)
