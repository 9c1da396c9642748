package sim

// LedgerEntry is one cash movement, kept for lifetime totals and the
// transaction log shown to the player.
type LedgerEntry struct {
	Week   int    `json:"week"`
	Kind   string `json:"kind"`
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// Ledger tracks cash plus lifetime revenue/expense/profit. Bankruptcy is a
// one-way latch set by the week-close check, never cleared afterwards.
type Ledger struct {
	Cash            int64         `json:"cash"`
	LifetimeRevenue int64         `json:"lifetime_revenue"`
	LifetimeExpense int64         `json:"lifetime_expense"`
	Entries         []LedgerEntry `json:"entries,omitempty"`
	Bankrupt        bool          `json:"bankrupt"`
	BankruptReason  string        `json:"bankrupt_reason,omitempty"`
	BankruptWeek    int           `json:"bankrupt_week,omitempty"`
}

const maxLedgerEntries = 260

func (l *Ledger) record(week int, kind, label string, amount int64) {
	l.Entries = append(l.Entries, LedgerEntry{Week: week, Kind: kind, Label: label, Amount: amount})
	if len(l.Entries) > maxLedgerEntries {
		l.Entries = l.Entries[len(l.Entries)-maxLedgerEntries:]
	}
}

func (l *Ledger) Credit(week int, kind, label string, amount int64) {
	if amount <= 0 {
		return
	}
	l.Cash += amount
	l.LifetimeRevenue += amount
	l.record(week, kind, label, amount)
}

func (l *Ledger) Debit(week int, kind, label string, amount int64) {
	if amount <= 0 {
		return
	}
	l.Cash -= amount
	l.LifetimeExpense += amount
	l.record(week, kind, label, -amount)
}

// Apply moves cash by a signed delta, splitting it into the credit or debit
// lifetime bucket.
func (l *Ledger) Apply(week int, kind, label string, delta int64) {
	if delta >= 0 {
		l.Credit(week, kind, label, delta)
		return
	}
	l.Debit(week, kind, label, -delta)
}

func (l *Ledger) CanAfford(amount int64) bool {
	return !l.Bankrupt && l.Cash >= amount
}

func (l *Ledger) LifetimeProfit() int64 {
	return l.LifetimeRevenue - l.LifetimeExpense
}

// CloseWeek runs the bankruptcy check. Cash is floor-clamped at zero once
// the studio goes under so later arithmetic stays sane.
func (l *Ledger) CloseWeek(week int, reason string) bool {
	if l.Bankrupt {
		l.Cash = 0
		return false
	}
	if l.Cash > 0 {
		return false
	}
	l.Bankrupt = true
	l.BankruptReason = reason
	l.BankruptWeek = week
	l.Cash = 0
	return true
}
