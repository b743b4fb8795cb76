// Package settlement splits a lump payout from a workshop balance across its employees.
//
// A manual settlement takes the split as entered and only checks it adds up. An automatic
// settlement divides the amount in proportion to the work recorded since the previous
// settlement: hours for hourly workshops, production value for production workshops.
// Every share is round(amount x weight / total); the employee with the largest weight is
// allocated last and absorbs whatever rounding left over, so the shares always add up to
// the amount exactly.
//
// Distribute is pure. The caller persists the returned settlement, workshop and credits in one
// transaction and must not run two settlements of the same workshop concurrently.
package settlement

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finance/internal/finerr"
	"finance/internal/money"
	"finance/pkg/models"
)

// Request describes one settlement attempt.
type Request struct {
	Workshop models.Workshop
	Amount   money.Amount
	Mode     models.DistributionType

	// ManualSplits is required for manual mode and ignored otherwise.
	ManualSplits []models.Distribution

	// WorkEntries is the workshop's work log; only the current period is used.
	WorkEntries []models.WorkEntry

	At time.Time
}

// Result is everything a successful settlement changes.
type Result struct {
	Settlement models.WorkshopSettlement `json:"settlement"`
	Workshop   models.Workshop           `json:"workshop"`
	Credits    []models.EmployeeCredit   `json:"credits"`
}

// Distribute validates req and returns the settlement it produces.
// On error nothing is returned and req.Workshop is unchanged.
func Distribute(req Request) (Result, error) {
	w := req.Workshop
	if err := checkWorkshop(w); err != nil {
		return Result{}, err
	}
	if req.At.IsZero() {
		return Result{}, finerr.InvalidField("at", nil, "settlement time is required")
	}
	if w.LastSettledAt != nil && req.At.Before(*w.LastSettledAt) {
		return Result{}, finerr.InvalidField("at", req.At, "before the previous settlement")
	}
	if req.Amount <= 0 {
		return Result{}, finerr.InvalidAmount("amount", req.Amount, "must be positive")
	}
	if req.Amount > w.Balance {
		return Result{}, &finerr.FieldError{
			Field:   "amount",
			Value:   req.Amount,
			Message: fmt.Sprintf("workshop %s holds only %d", w.ID, w.Balance),
			Err:     finerr.ErrInsufficientBalance,
		}
	}

	var (
		dists []models.Distribution
		err   error
	)
	switch req.Mode {
	case models.DistributionManual:
		dists, err = manual(w, req.Amount, req.ManualSplits)
	case models.DistributionAutomatic:
		dists, err = automatic(w, req.Amount, req.WorkEntries, req.At)
	default:
		err = finerr.InvalidField("distributionType", req.Mode, "must be manual or automatic")
	}
	if err != nil {
		return Result{}, err
	}

	return commit(w, req, dists), nil
}

func commit(w models.Workshop, req Request, dists []models.Distribution) Result {
	s := models.WorkshopSettlement{
		ID:               uuid.NewString(),
		WorkshopID:       w.ID,
		Amount:           req.Amount,
		DistributionType: req.Mode,
		Distributions:    dists,
		CreatedAt:        req.At,
	}
	if w.LastSettledAt != nil {
		start := *w.LastSettledAt
		s.PeriodStart = &start
	}

	credits := make([]models.EmployeeCredit, 0, len(dists))
	for _, d := range dists {
		credits = append(credits, models.EmployeeCredit{
			ID:           uuid.NewString(),
			EmployeeID:   d.EmployeeID,
			WorkshopID:   w.ID,
			SettlementID: s.ID,
			Amount:       d.Amount,
			CreatedAt:    req.At,
		})
	}

	next := w
	next.Members = append([]string(nil), w.Members...)
	next.Balance = w.Balance - req.Amount
	at := req.At
	next.LastSettledAt = &at

	return Result{Settlement: s, Workshop: next, Credits: credits}
}

func manual(w models.Workshop, amount money.Amount, splits []models.Distribution) ([]models.Distribution, error) {
	if len(splits) == 0 {
		return nil, finerr.InvalidField("manualSplits", nil, "at least one split is required")
	}

	var errs finerr.ValidationErrors
	seen := make(map[string]bool, len(splits))
	amounts := make([]money.Amount, 0, len(splits))
	for i, sp := range splits {
		field := func(name string) string { return fmt.Sprintf("manualSplits[%d].%s", i, name) }

		switch {
		case sp.EmployeeID == "":
			errs.Add(finerr.InvalidField(field("employeeId"), nil, "required"))
		case seen[sp.EmployeeID]:
			errs.Add(finerr.InvalidField(field("employeeId"), sp.EmployeeID, "employee listed twice"))
		case !w.HasMember(sp.EmployeeID):
			errs.Add(finerr.InvalidField(field("employeeId"), sp.EmployeeID, "not a member of the workshop"))
		}
		seen[sp.EmployeeID] = true

		if sp.Amount <= 0 {
			errs.Add(finerr.InvalidAmount(field("amount"), sp.Amount, "must be positive"))
		}
		amounts = append(amounts, sp.Amount)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	sum, err := money.Sum(amounts...)
	if err != nil {
		return nil, finerr.InvalidAmount("manualSplits", nil, "split total out of range")
	}
	if sum != amount {
		return nil, &finerr.MismatchError{Expected: int64(amount), Actual: int64(sum)}
	}

	return append([]models.Distribution(nil), splits...), nil
}

type weight struct {
	employeeID string
	value      decimal.Decimal
}

func automatic(w models.Workshop, amount money.Amount, entries []models.WorkEntry, at time.Time) ([]models.Distribution, error) {
	weights, err := periodWeights(w, entries, at)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, wt := range weights {
		total = total.Add(wt.value)
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: workshop %s since %s", finerr.ErrNoWorkRecorded, w.ID, periodLabel(w))
	}

	return allocate(amount, weights, total), nil
}

// periodWeights sums the work of each employee over the entries of the current period.
// Employees without work are left out.
func periodWeights(w models.Workshop, entries []models.WorkEntry, at time.Time) ([]weight, error) {
	var errs finerr.ValidationErrors
	byEmployee := make(map[string]decimal.Decimal)

	for i, e := range entries {
		if !InPeriod(w, e.Date, at) {
			continue
		}
		field := func(name string) string { return fmt.Sprintf("workEntries[%d].%s", i, name) }

		if !w.HasMember(e.EmployeeID) {
			errs.Add(finerr.InvalidField(field("employeeId"), e.EmployeeID, "not a member of the workshop"))
			continue
		}

		var v decimal.Decimal
		switch w.Kind {
		case models.WorkshopHourly:
			if e.Hours.IsNegative() {
				errs.Add(finerr.InvalidField(field("hours"), e.Hours.String(), "must not be negative"))
				continue
			}
			v = e.Hours
		case models.WorkshopProduction:
			if e.Quantity.IsNegative() {
				errs.Add(finerr.InvalidField(field("quantity"), e.Quantity.String(), "must not be negative"))
				continue
			}
			if e.ProductionRate < 0 {
				errs.Add(finerr.InvalidAmount(field("productionRate"), e.ProductionRate, "must not be negative"))
				continue
			}
			value, err := e.ProductionValue()
			if err != nil {
				errs.Add(finerr.InvalidAmount(field("productionRate"), e.ProductionRate, "production value out of range"))
				continue
			}
			v = decimal.NewFromInt(int64(value))
		}

		cur, ok := byEmployee[e.EmployeeID]
		if !ok {
			cur = decimal.Zero
		}
		byEmployee[e.EmployeeID] = cur.Add(v)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	weights := make([]weight, 0, len(byEmployee))
	for id, v := range byEmployee {
		if v.IsPositive() {
			weights = append(weights, weight{employeeID: id, value: v})
		}
	}
	return weights, nil
}

// allocate hands out round(amount x weight / total) in ascending weight order and gives the
// rest to the last, largest, weight. A share never exceeds what is still unallocated.
func allocate(amount money.Amount, weights []weight, total decimal.Decimal) []models.Distribution {
	sort.Slice(weights, func(i, j int) bool {
		if c := weights[i].value.Cmp(weights[j].value); c != 0 {
			return c < 0
		}
		return weights[i].employeeID < weights[j].employeeID
	})

	out := make([]models.Distribution, 0, len(weights))
	left := amount
	for i, wt := range weights {
		share := left
		if i < len(weights)-1 {
			share = money.Min(money.Share(amount, wt.value, total), left)
		}
		left -= share
		if share > 0 {
			out = append(out, models.Distribution{EmployeeID: wt.employeeID, Amount: share})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out
}

// InPeriod reports whether a work entry dated date belongs to the settlement closing at at:
// after the previous settlement and not after at.
func InPeriod(w models.Workshop, date, at time.Time) bool {
	if w.LastSettledAt != nil && !date.After(*w.LastSettledAt) {
		return false
	}
	return !date.After(at)
}

func periodLabel(w models.Workshop) string {
	if w.LastSettledAt == nil {
		return "opening"
	}
	return w.LastSettledAt.Format(time.RFC3339)
}

func checkWorkshop(w models.Workshop) error {
	fault := func(details string) error {
		return &finerr.IntegrityError{Record: "workshop", ID: w.ID, Details: details}
	}
	if w.Balance < 0 {
		return fault(fmt.Sprintf("balance %d is negative", w.Balance))
	}
	if w.Kind != models.WorkshopHourly && w.Kind != models.WorkshopProduction {
		return fault(fmt.Sprintf("unknown kind %q", w.Kind))
	}
	return nil
}

// NormalizeWorkDate moves t to anchorHour:00 on its calendar date in loc, the time of day work
// entries are recorded at.
func NormalizeWorkDate(t time.Time, anchorHour int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), anchorHour, 0, 0, 0, loc)
}
