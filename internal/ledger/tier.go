package ledger

// Tier is the membership band derived from a balance. It is never stored.
type Tier struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var (
	Platinum = Tier{Name: "Platinum", Color: "info", Icon: "gem"}
	Gold     = Tier{Name: "Gold", Color: "warning", Icon: "trophy"}
	Silver   = Tier{Name: "Silver", Color: "secondary", Icon: "award"}
)

// tiers are ordered highest first; the first threshold met wins.
var tiers = []struct {
	min  int64
	tier Tier
}{
	{500, Platinum},
	{100, Gold},
}

// DeriveTier maps a balance to its tier. Balances below every threshold,
// negative ones included, are Silver.
func DeriveTier(balance int64) Tier {
	for _, t := range tiers {
		if balance >= t.min {
			return t.tier
		}
	}
	return Silver
}
