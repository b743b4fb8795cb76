package models

import (
	"time"

	"github.com/shopspring/decimal"

	"finance/internal/money"
)

// WorkshopKind decides what automatic settlements are proportional to.
type WorkshopKind string

const (
	WorkshopHourly     WorkshopKind = "hourly"
	WorkshopProduction WorkshopKind = "production"
)

// Workshop accrues a balance that settlements pay out to its employees.
type Workshop struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Kind          WorkshopKind `json:"kind"`
	Balance       money.Amount `json:"balance"`
	Members       []string     `json:"members"`
	LastSettledAt *time.Time   `json:"last_settled_at,omitempty"`
}

// HasMember reports whether employeeID currently belongs to the workshop.
func (w *Workshop) HasMember(employeeID string) bool {
	for _, m := range w.Members {
		if m == employeeID {
			return true
		}
	}
	return false
}

// WorkEntry records hours or production by one employee on one day.
type WorkEntry struct {
	EmployeeID     string          `json:"employee_id"`
	Date           time.Time       `json:"date"`
	Hours          decimal.Decimal `json:"hours"`
	Quantity       decimal.Decimal `json:"quantity"`
	ProductionRate money.Amount    `json:"production_rate"`
}

// ProductionValue is round(Quantity x ProductionRate).
func (e *WorkEntry) ProductionValue() (money.Amount, error) {
	return money.MulDecimal(e.ProductionRate, e.Quantity)
}

// DistributionType says how a settlement amount was split.
type DistributionType string

const (
	DistributionManual    DistributionType = "manual"
	DistributionAutomatic DistributionType = "automatic"
)

// Distribution is the amount one employee receives from a settlement.
type Distribution struct {
	EmployeeID string       `json:"employee_id"`
	Amount     money.Amount `json:"amount"`
}

// WorkshopSettlement closes out part or all of a workshop balance. Immutable once created.
type WorkshopSettlement struct {
	ID               string           `json:"id"`
	WorkshopID       string           `json:"workshop_id"`
	Amount           money.Amount     `json:"amount"`
	DistributionType DistributionType `json:"distribution_type"`
	Distributions    []Distribution   `json:"distributions"`
	PeriodStart      *time.Time       `json:"period_start,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// EmployeeCredit is the ledger entry crediting an employee with a distribution.
type EmployeeCredit struct {
	ID           string       `json:"id"`
	EmployeeID   string       `json:"employee_id"`
	WorkshopID   string       `json:"workshop_id"`
	SettlementID string       `json:"settlement_id"`
	Amount       money.Amount `json:"amount"`
	CreatedAt    time.Time    `json:"created_at"`
}
