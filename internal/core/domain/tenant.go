package domain

import "fmt"

// Plan is the subscription tier of a tenant.
type Plan string

const (
	PlanFree Plan = "Free"
	PlanPro  Plan = "Pro"
)

// FreePlanNoteLimit is the maximum number of notes a Free tenant may hold.
const FreePlanNoteLimit = 3

// Valid reports whether p is one of the known plans.
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPro
}

// NoteLimit returns the note quota of the plan and whether one applies.
func (p Plan) NoteLimit() (int, bool) {
	if p == PlanFree {
		return FreePlanNoteLimit, true
	}
	return 0, false
}

// ParsePlan converts a raw string into a Plan.
func ParsePlan(s string) (Plan, error) {
	p := Plan(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown plan %q", ErrValidation, s)
	}
	return p, nil
}

// Tenant is an isolated customer organization; the unit of plan and data
// partitioning.
type Tenant struct {
	Slug string `json:"slug" bson:"_id"`
	Name string `json:"name" bson:"name"`
	Plan Plan   `json:"plan" bson:"plan"`
}
