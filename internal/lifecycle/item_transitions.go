package lifecycle

import (
	"fmt"

	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
)

var itemTransitions = map[domain.ItemStatus][]domain.ItemStatus{
	domain.ItemStatusAvailable: {
		domain.ItemStatusReserved, domain.ItemStatusRented,
		domain.ItemStatusLaundry, domain.ItemStatusAtelier, domain.ItemStatusQuarantine,
	},
	domain.ItemStatusReserved: {domain.ItemStatusRented, domain.ItemStatusAvailable},
	domain.ItemStatusRented:   {domain.ItemStatusReturned, domain.ItemStatusAvailable},
	domain.ItemStatusReturned: {
		domain.ItemStatusLaundry, domain.ItemStatusAtelier,
		domain.ItemStatusQuarantine, domain.ItemStatusAvailable,
	},
	domain.ItemStatusLaundry:    {domain.ItemStatusAvailable, domain.ItemStatusAtelier},
	domain.ItemStatusAtelier:    {domain.ItemStatusAvailable, domain.ItemStatusLaundry},
	domain.ItemStatusQuarantine: {domain.ItemStatusAvailable, domain.ItemStatusAtelier, domain.ItemStatusLaundry},
}

func CanTransition(from, to domain.ItemStatus) bool {
	for _, s := range itemTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TriageItem moves an item between processing states (returned, laundry,
// atelier, quarantine, available) and re-derives the status of the active
// contracts that already handed that item back.
func TriageItem(items map[string]domain.Item, contracts []domain.Contract, itemID string, target domain.ItemStatus) (Changeset, error) {
	item, ok := items[itemID]
	if !ok {
		return Changeset{}, apperrors.NewNotFoundError(fmt.Sprintf("item %s not found", itemID))
	}
	if !target.Valid() {
		return Changeset{}, apperrors.NewValidationError("invalid item status", apperrors.ValidationDetail{
			Field:   "status",
			Message: fmt.Sprintf("unknown status %q", target),
		})
	}
	if item.Status == domain.ItemStatusReserved || item.Status == domain.ItemStatusRented ||
		target == domain.ItemStatusReserved || target == domain.ItemStatusRented {
		return Changeset{}, apperrors.NewConflictError(CodeInvalidTransition,
			fmt.Sprintf("item %s: %s -> %s is driven by contract operations", itemID, item.Status, target))
	}
	if !CanTransition(item.Status, target) {
		return Changeset{}, apperrors.NewConflictError(CodeInvalidTransition,
			fmt.Sprintf("item %s cannot go from %s to %s", itemID, item.Status, target))
	}

	w := newWorking(items)
	w.set(itemID, target)

	cs := Changeset{}
	for _, c := range contracts {
		if c.Status != domain.ContractStatusActive || !c.HasReturned(itemID) {
			continue
		}
		if next, changed := reconcile(c, w); changed {
			cs.Contracts = append(cs.Contracts, next)
		}
	}
	cs.Items = w.items()
	return cs, nil
}
