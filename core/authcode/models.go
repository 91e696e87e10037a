package authcode

import "time"

// Code is an administrator-issued, single-use token a prospective teacher
// account must present to complete registration. Transitions unused -> used
// exactly once and never reverts.
type Code struct {
	Code            string     `json:"code"`
	Used            bool       `json:"used"`
	IssuedBy        string     `json:"issuedBy"`
	IssuedAt        time.Time  `json:"issuedAt"` // UTC
	UsedByAccountID string     `json:"usedByAccountId,omitempty"`
	UsedAt          *time.Time `json:"usedAt,omitempty"` // UTC
}

// NewCode contains information needed to issue a new Code.
type NewCode struct {
	Code     string `json:"code" validate:"required,min=4"`
	IssuedBy string `json:"issuedBy"`
}
