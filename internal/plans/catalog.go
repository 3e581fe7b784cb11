package plans

import "fmt"

// Plan is one pricing tier with its usage entitlements. The catalog is
// configuration data: immutable, no runtime lifecycle.
type Plan struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	MonthlyPrice int          `json:"monthlyPrice"` // USD
	Entitlements Entitlements `json:"entitlements"`
}

// Entitlements holds the numeric usage limits of a tier
type Entitlements struct {
	Workspaces        int `json:"workspaces"`
	TeamMembers       int `json:"teamMembers"`
	SessionsPerMonth  int `json:"sessionsPerMonth"`
	StorageGB         int `json:"storageGb"`
	APICallsPerDay    int `json:"apiCallsPerDay"`
	ContextDocuments  int `json:"contextDocuments"`
}

// catalog is the full tier list, cheapest first
var catalog = []Plan{
	{
		ID:           "starter",
		Name:         "Starter",
		MonthlyPrice: 0,
		Entitlements: Entitlements{
			Workspaces:       1,
			TeamMembers:      3,
			SessionsPerMonth: 5,
			StorageGB:        1,
			APICallsPerDay:   1000,
			ContextDocuments: 10,
		},
	},
	{
		ID:           "growth",
		Name:         "Growth",
		MonthlyPrice: 49,
		Entitlements: Entitlements{
			Workspaces:       5,
			TeamMembers:      15,
			SessionsPerMonth: 50,
			StorageGB:        25,
			APICallsPerDay:   25000,
			ContextDocuments: 200,
		},
	},
	{
		ID:           "scale",
		Name:         "Scale",
		MonthlyPrice: 199,
		Entitlements: Entitlements{
			Workspaces:       25,
			TeamMembers:      100,
			SessionsPerMonth: 500,
			StorageGB:        250,
			APICallsPerDay:   250000,
			ContextDocuments: 2000,
		},
	},
}

// All returns the full catalog in display order
func All() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a plan by its identifier
func ByID(id string) (Plan, error) {
	for _, plan := range catalog {
		if plan.ID == id {
			return plan, nil
		}
	}
	return Plan{}, fmt.Errorf("unknown plan: %s", id)
}
