package lifecycle

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
)

const (
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeSignatureRequired = "SIGNATURE_REQUIRED"
	CodePickupTooEarly    = "PICKUP_TOO_EARLY"
	CodeItemNotReady      = "ITEM_NOT_READY"
	CodeItemNotInContract = "ITEM_NOT_IN_CONTRACT"
	CodeItemAlreadyMoved  = "ITEM_ALREADY_MOVED"
)

func invalidTransition(c domain.Contract, action string) error {
	return apperrors.NewConflictError(CodeInvalidTransition,
		fmt.Sprintf("cannot %s contract %s in status %s", action, c.ID, c.Status))
}

// Schedule moves a draft to Agendado and reserves its available items.
func Schedule(c domain.Contract, items map[string]domain.Item) (Changeset, error) {
	if c.Status != domain.ContractStatusDraft {
		return Changeset{}, invalidTransition(c, "schedule")
	}
	next := c.Clone()
	next.Status = domain.ContractStatusScheduled

	cs := Reserve(next, items)
	cs.Contracts = []domain.Contract{next}
	return cs, nil
}

// Reserve marks the contract's Disponível items as Reservado. It only
// touches items, the contract itself is returned unchanged.
func Reserve(c domain.Contract, items map[string]domain.Item) Changeset {
	w := newWorking(items)
	for _, id := range c.DistinctItemIDs() {
		if it, ok := w.get(id); ok && it.Status == domain.ItemStatusAvailable {
			w.set(id, domain.ItemStatusReserved)
		}
	}
	return Changeset{Items: w.items()}
}

func checkPickupGate(c domain.Contract, now time.Time) error {
	if c.Status != domain.ContractStatusScheduled {
		return invalidTransition(c, "pick up")
	}
	if !c.IsSigned() {
		return apperrors.NewPreconditionError(CodeSignatureRequired,
			fmt.Sprintf("contract %s must be signed before pickup", c.ID))
	}
	if domain.NormalizeDate(now).Before(domain.NormalizeDate(c.StartDate)) {
		return apperrors.NewPreconditionError(CodePickupTooEarly,
			fmt.Sprintf("contract %s starts on %s", c.ID, c.StartDate.Format("2006-01-02")))
	}
	return nil
}

func checkReady(it domain.Item) error {
	if !it.Status.Offerable() {
		return apperrors.NewPreconditionError(CodeItemNotReady,
			fmt.Sprintf("item %s is %s", it.ID, it.Status))
	}
	return nil
}

// ConfirmPickup hands every item of a signed, scheduled contract to the client.
func ConfirmPickup(c domain.Contract, items map[string]domain.Item, now time.Time) (Changeset, error) {
	if err := checkPickupGate(c, now); err != nil {
		return Changeset{}, err
	}

	w := newWorking(items)
	for _, id := range c.DistinctItemIDs() {
		it, ok := w.get(id)
		if !ok {
			continue
		}
		if err := checkReady(it); err != nil {
			return Changeset{}, err
		}
		w.set(id, domain.ItemStatusRented)
	}

	next := c.Clone()
	for _, id := range c.DistinctItemIDs() {
		next.MarkPickedUp(id)
	}
	next.Status = domain.ContractStatusActive
	return Changeset{Contracts: []domain.Contract{next}, Items: w.items()}, nil
}

func checkInContract(c domain.Contract, itemID string) error {
	if c.Units(itemID) == 0 {
		return apperrors.NewPreconditionError(CodeItemNotInContract,
			fmt.Sprintf("item %s is not part of contract %s", itemID, c.ID))
	}
	return nil
}

// PickupItem hands over a single item. When it is the last one still with
// the store, the contract becomes Ativo.
func PickupItem(c domain.Contract, items map[string]domain.Item, itemID string, now time.Time) (Changeset, error) {
	if err := checkPickupGate(c, now); err != nil {
		return Changeset{}, err
	}
	if err := checkInContract(c, itemID); err != nil {
		return Changeset{}, err
	}
	if c.HasPickedUp(itemID) {
		return Changeset{}, apperrors.NewConflictError(CodeItemAlreadyMoved,
			fmt.Sprintf("item %s of contract %s was already picked up", itemID, c.ID))
	}
	it, ok := items[itemID]
	if !ok {
		return Changeset{}, apperrors.NewNotFoundError(fmt.Sprintf("item %s not found", itemID))
	}
	if err := checkReady(it); err != nil {
		return Changeset{}, err
	}

	w := newWorking(items)
	w.set(itemID, domain.ItemStatusRented)

	next := c.Clone()
	next.MarkPickedUp(itemID)
	next, _ = reconcile(next, w)
	return Changeset{Contracts: []domain.Contract{next}, Items: w.items()}, nil
}

// sendBack moves a unit coming back from the client to Devolução. Units
// already in a processing state, quarantine included, keep it.
func sendBack(w *working, itemID string) {
	if it, ok := w.get(itemID); ok && (it.Status == domain.ItemStatusRented || it.Status == domain.ItemStatusReserved) {
		w.set(itemID, domain.ItemStatusReturned)
	}
}

// ReceiveReturn closes an active contract: it is settled and its items that
// are still out come back for triage.
func ReceiveReturn(c domain.Contract, items map[string]domain.Item) (Changeset, error) {
	if c.Status != domain.ContractStatusActive {
		return Changeset{}, invalidTransition(c, "receive return of")
	}

	w := newWorking(items)
	next := c.Clone()
	for _, id := range c.DistinctItemIDs() {
		sendBack(w, id)
		next.MarkReturned(id)
	}
	next.Status = domain.ContractStatusFinished
	next.Settle()
	return Changeset{Contracts: []domain.Contract{next}, Items: w.items()}, nil
}

// ReturnItem receives a single item back. The last outstanding item finishes
// the contract.
func ReturnItem(c domain.Contract, items map[string]domain.Item, itemID string) (Changeset, error) {
	if c.Status != domain.ContractStatusActive {
		return Changeset{}, invalidTransition(c, "return items of")
	}
	if err := checkInContract(c, itemID); err != nil {
		return Changeset{}, err
	}
	it, ok := items[itemID]
	if !ok {
		return Changeset{}, apperrors.NewNotFoundError(fmt.Sprintf("item %s not found", itemID))
	}
	if c.HasReturned(itemID) {
		return Changeset{}, apperrors.NewConflictError(CodeItemAlreadyMoved,
			fmt.Sprintf("item %s of contract %s was already returned", itemID, c.ID))
	}
	// Without a custody record the item status decides.
	if !c.HasPickedUp(itemID) && it.Status != domain.ItemStatusRented {
		return Changeset{}, apperrors.NewConflictError(CodeInvalidTransition,
			fmt.Sprintf("item %s is %s, not %s", itemID, it.Status, domain.ItemStatusRented))
	}

	w := newWorking(items)
	sendBack(w, itemID)

	next := c.Clone()
	next.MarkReturned(itemID)
	next, _ = reconcile(next, w)
	return Changeset{Contracts: []domain.Contract{next}, Items: w.items()}, nil
}

// Cancel ends a scheduled or active contract and releases its held items.
func Cancel(c domain.Contract, items map[string]domain.Item) (Changeset, error) {
	if c.Status != domain.ContractStatusScheduled && c.Status != domain.ContractStatusActive {
		return Changeset{}, invalidTransition(c, "cancel")
	}

	w := newWorking(items)
	for _, id := range c.DistinctItemIDs() {
		it, ok := w.get(id)
		if !ok {
			continue
		}
		if it.Status == domain.ItemStatusReserved || it.Status == domain.ItemStatusRented {
			w.set(id, domain.ItemStatusAvailable)
		}
	}

	next := c.Clone()
	next.Status = domain.ContractStatusCanceled
	return Changeset{Contracts: []domain.Contract{next}, Items: w.items()}, nil
}

// Reconcile applies the aggregate rule to c against the current registry.
// Only units c itself picked up or returned count toward its aggregate, so
// another contract sharing an item id never starts or finishes it.
func Reconcile(c domain.Contract, items map[string]domain.Item) (domain.Contract, bool) {
	return reconcile(c, newWorking(items))
}

// reconcile lets the last item to change state drive the contract: all items
// out moves Agendado to Ativo, all items back moves Ativo to Finalizado.
func reconcile(c domain.Contract, w *working) (domain.Contract, bool) {
	known := 0
	allRented, allBack := true, true
	for _, id := range c.DistinctItemIDs() {
		it, ok := w.get(id)
		if !ok {
			continue
		}
		known++
		if !c.HasPickedUp(id) || it.Status != domain.ItemStatusRented {
			allRented = false
		}
		if !c.HasReturned(id) || !it.Status.PostReturn() {
			allBack = false
		}
	}
	if known == 0 {
		return c, false
	}

	switch {
	case c.Status == domain.ContractStatusScheduled && allRented:
		next := c.Clone()
		next.Status = domain.ContractStatusActive
		return next, true
	case c.Status == domain.ContractStatusActive && allBack:
		next := c.Clone()
		next.Status = domain.ContractStatusFinished
		next.Settle()
		return next, true
	}
	return c, false
}

// RegisterPayment adds amount to the paid total.
func RegisterPayment(c domain.Contract, amount decimal.Decimal) (domain.Contract, error) {
	if c.Status == domain.ContractStatusCanceled {
		return c, invalidTransition(c, "register a payment on")
	}
	if !amount.IsPositive() {
		return c, apperrors.NewValidationError("invalid payment", apperrors.ValidationDetail{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	}
	paid := c.PaidAmount.Add(amount)
	if paid.GreaterThan(c.TotalValue) {
		return c, apperrors.NewValidationError("invalid payment", apperrors.ValidationDetail{
			Field:   "amount",
			Message: fmt.Sprintf("amount exceeds the outstanding balance of %s", c.Balance.StringFixed(2)),
		})
	}
	next := c.Clone()
	next.SetPaidAmount(paid)
	return next, nil
}

// Sign records an electronic signature or the manual-signature flag.
func Sign(c domain.Contract, signature string, manual bool) (domain.Contract, error) {
	if c.Status.Terminal() {
		return c, invalidTransition(c, "sign")
	}
	if signature == "" && !manual {
		return c, apperrors.NewValidationError("invalid signature", apperrors.ValidationDetail{
			Field:   "signature",
			Message: "signature or manualSignature is required",
		})
	}
	next := c.Clone()
	next.Signature = signature
	next.ManualSignature = manual
	return next, nil
}

// Rebook adjusts item reservations after a scheduled contract's item list was
// edited: added items are reserved, and removed Reservado items no other
// live contract references go back to Disponível.
func Rebook(prev, next domain.Contract, items map[string]domain.Item, contracts []domain.Contract) Changeset {
	if next.Status != domain.ContractStatusScheduled {
		return Changeset{}
	}

	held := map[string]bool{}
	for _, c := range contracts {
		if c.ID == next.ID || c.Status.Terminal() {
			continue
		}
		for _, id := range c.Items {
			held[id] = true
		}
	}
	kept := map[string]bool{}
	for _, id := range next.Items {
		kept[id] = true
	}

	w := newWorking(items)
	for _, id := range prev.DistinctItemIDs() {
		if kept[id] || held[id] {
			continue
		}
		if it, ok := w.get(id); ok && it.Status == domain.ItemStatusReserved {
			w.set(id, domain.ItemStatusAvailable)
		}
	}
	for _, id := range next.DistinctItemIDs() {
		if it, ok := w.get(id); ok && it.Status == domain.ItemStatusAvailable {
			w.set(id, domain.ItemStatusReserved)
		}
	}
	return Changeset{Items: w.items()}
}
