package agenda

import (
	"sort"
	"time"

	"locatrajes/internal/domain"
)

const DefaultDays = 10

type Kind string

const (
	KindAppointment Kind = "appointment"
	KindPickup      Kind = "pickup"
	KindReturn      Kind = "return"
)

type Entry struct {
	Kind          Kind
	Date          time.Time
	Time          string
	ClientName    string
	ContractID    string
	AppointmentID string
	Label         string
}

// View buckets pending events around a reference day.
type View struct {
	Today    []Entry
	Overdue  []Entry
	Upcoming []Entry
}

// Build projects scheduled appointments, pickups of Agendado contracts and
// returns of Ativo contracts into today, overdue and the next days window.
func Build(contracts []domain.Contract, appointments []domain.Appointment, now time.Time, days int) View {
	var entries []Entry
	for _, a := range appointments {
		if a.Status != domain.AppointmentStatusScheduled {
			continue
		}
		e := Entry{
			Kind:          KindAppointment,
			Date:          domain.NormalizeDate(a.Date),
			Time:          a.Time,
			ClientName:    a.ClientName,
			AppointmentID: a.ID,
			Label:         string(a.Type),
		}
		if a.ContractID != nil {
			e.ContractID = *a.ContractID
		}
		entries = append(entries, e)
	}
	for _, c := range contracts {
		switch c.Status {
		case domain.ContractStatusScheduled:
			entries = append(entries, Entry{
				Kind:       KindPickup,
				Date:       domain.NormalizeDate(c.StartDate),
				ClientName: c.ClientName,
				ContractID: c.ID,
				Label:      "Retirada",
			})
		case domain.ContractStatusActive:
			entries = append(entries, Entry{
				Kind:       KindReturn,
				Date:       domain.NormalizeDate(c.EndDate),
				ClientName: c.ClientName,
				ContractID: c.ID,
				Label:      "Devolução",
			})
		}
	}

	today := domain.NormalizeDate(now)
	limit := domain.AddDays(today, days)

	var v View
	for _, e := range entries {
		switch {
		case e.Date.Equal(today):
			v.Today = append(v.Today, e)
		case e.Date.Before(today):
			v.Overdue = append(v.Overdue, e)
		case !e.Date.After(limit):
			v.Upcoming = append(v.Upcoming, e)
		}
	}

	sortEntries(v.Today)
	sortEntries(v.Overdue)
	sortEntries(v.Upcoming)
	return v
}

// OnDay returns the entries of a single calendar day, regardless of bucket.
func OnDay(contracts []domain.Contract, appointments []domain.Appointment, day time.Time) []Entry {
	return Build(contracts, appointments, day, 0).Today
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Time < entries[j].Time
	})
}
