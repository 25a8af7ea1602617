package models

import "time"

// Area represents a physical or functional unit that requires daily
// coverage. The per-role required counts form the minimum-coverage rule set
// that the coverage evaluator applies.
type Area struct {
	ID                     string    `json:"id" db:"id"`
	Name                   string    `json:"name" db:"name"`
	RequiredRNCount        int       `json:"required_rn_count" db:"required_rn_count"`
	RequiredTechCount      int       `json:"required_tech_count" db:"required_tech_count"`
	RequiredScopeTechCount int       `json:"required_scope_tech_count" db:"required_scope_tech_count"`
	SpecialRules           *string   `json:"special_rules,omitempty" db:"special_rules"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}
