package models

import "fmt"

type Team struct {
	Name   string `json:"name" db:"name"`
	Budget int    `json:"budget" db:"budget"` // initial budget in lakhs, immutable after creation

	SecretHash *string `json:"-" db:"secret_hash"`

	// Derived, never stored: budget minus the roster's total sold amount.
	RemainingBudget int `json:"remaining_budget" db:"-"`
}

// Secured reports whether roster reads for this team require a secret.
func (t Team) Secured() bool {
	return t.SecretHash != nil && *t.SecretHash != ""
}

// CroreString renders a lakh amount as crores for display, e.g. 8500 -> "85 Cr".
// 100 lakhs = 1 crore.
func CroreString(lakhs int) string {
	if lakhs%100 == 0 {
		return fmt.Sprintf("%d Cr", lakhs/100)
	}
	return fmt.Sprintf("%.2f Cr", float64(lakhs)/100)
}
