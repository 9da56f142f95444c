package alerts

import (
	"fmt"
	"time"

	"locatrajes/internal/domain"
)

const DefaultWindowDays = 3

// Generator derives due and overdue alerts from pending expenses.
type Generator struct {
	windowDays     int
	financialRoles map[domain.Role]struct{}
}

func NewGenerator(windowDays int, financialRoles []domain.Role) *Generator {
	roles := make(map[domain.Role]struct{}, len(financialRoles))
	for _, r := range financialRoles {
		roles[r] = struct{}{}
	}
	return &Generator{windowDays: windowDays, financialRoles: roles}
}

func (g *Generator) CanSeeFinancial(role domain.Role) bool {
	_, ok := g.financialRoles[role]
	return ok
}

func DueAlertID(transactionID string) string {
	return "fin-due-" + transactionID
}

func OverdueAlertID(transactionID string) string {
	return "fin-overdue-" + transactionID
}

// Scan returns only the notifications not already present in existing.
// It never mutates its inputs.
func (g *Generator) Scan(transactions []domain.Transaction, existing []domain.Notification, role domain.Role, now time.Time) []domain.Notification {
	if !g.CanSeeFinancial(role) {
		return nil
	}

	seen := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		seen[n.ID] = struct{}{}
	}

	var out []domain.Notification
	for _, tx := range transactions {
		n, ok := g.alertFor(tx, now)
		if !ok {
			continue
		}
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		out = append(out, n)
	}
	return out
}

func (g *Generator) alertFor(tx domain.Transaction, now time.Time) (domain.Notification, bool) {
	if tx.Type != domain.TransactionTypeExpense || tx.Status != domain.TransactionStatusPending || tx.DueDate == nil {
		return domain.Notification{}, false
	}

	days := domain.DaysBetween(now, *tx.DueDate)
	due := tx.DueDate.Format("02/01/2006")
	amount := tx.Amount.StringFixed(2)

	switch {
	case days < 0:
		return domain.Notification{
			ID:      OverdueAlertID(tx.ID),
			Type:    domain.NotificationError,
			Title:   "Conta vencida",
			Message: fmt.Sprintf("%s (R$ %s) venceu em %s.", tx.Description, amount, due),
			Date:    now,
			Link:    "/financeiro",
		}, true
	case days <= g.windowDays:
		when := fmt.Sprintf("vence em %s", due)
		if days == 0 {
			when = "vence hoje"
		}
		return domain.Notification{
			ID:      DueAlertID(tx.ID),
			Type:    domain.NotificationWarning,
			Title:   "Conta a vencer",
			Message: fmt.Sprintf("%s (R$ %s) %s.", tx.Description, amount, when),
			Date:    now,
			Link:    "/financeiro",
		}, true
	}
	return domain.Notification{}, false
}
