// Package combat models how an attacking army fares against an oasis
package combat

import "github.com/napolitain/solver-oasis/internal/models"

// AggregateDefense sums the infantry and cavalry defense of an oasis garrison.
// Names missing from the catalog contribute nothing.
func AggregateDefense(catalog models.DefenderCatalog, composition models.DefenseComposition) (infantry, cavalry float64) {
	// Sorted keys keep the float sums reproducible
	for _, name := range composition.SortedNames() {
		defender, ok := catalog.Lookup(name)
		if !ok {
			continue
		}
		count := float64(composition[name])
		infantry += count * defender.InfantryDefense
		cavalry += count * defender.CavalryDefense
	}
	return infantry, cavalry
}
