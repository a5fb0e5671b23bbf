package career

import (
	"fmt"
	"slices"

	"github.com/russofg/event-chaos-sub000/pkg/modifier"
)

// PurchaseUpgrade spends career points on an upgrade from the catalog.
func PurchaseUpgrade(d Data, id string, catalog modifier.Catalog) (Data, error) {
	up, ok := catalog[id]
	if !ok {
		return d, fmt.Errorf("%w: %s", ErrUnknownUpgrade, id)
	}
	if slices.Contains(d.UnlockedUpgrades, id) {
		return d, fmt.Errorf("%w: %s", ErrAlreadyUnlocked, id)
	}
	if d.CareerPoints < up.Cost {
		return d, fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientPoints, id, up.Cost, d.CareerPoints)
	}

	out := d.Clone()
	out.CareerPoints -= up.Cost
	out.UnlockedUpgrades = append(out.UnlockedUpgrades, id)
	return out, nil
}
