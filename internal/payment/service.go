package payment

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"finance/internal/finerr"
	"finance/internal/logger"
	"finance/internal/money"
	"finance/pkg/models"
)

// Poster posts invoices and debt payments, logging each outcome.
type Poster struct {
	log zerolog.Logger
	now func() time.Time
}

// NewPoster creates a poster using the wall clock.
func NewPoster() *Poster {
	return &Poster{
		log: logger.WithComponent("payment"),
		now: time.Now,
	}
}

// Post derives the ledger consequences of inv and applies its cash movement to fund.
func (p *Poster) Post(inv models.Invoice, fund models.Fund) (Posting, models.Fund, error) {
	const op = "Post"

	posting, err := Post(inv, p.now())
	if err != nil {
		p.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("Invoice posting rejected")
		return Posting{}, models.Fund{}, finerr.Wrap(op, err, fmt.Sprintf("invoice %s", inv.ID))
	}
	f, err := ApplyToFund(fund, posting)
	if err != nil {
		p.log.Warn().Err(err).Str("invoice_id", inv.ID).Str("fund_id", fund.ID).Msg("Fund cannot cover invoice")
		return Posting{}, models.Fund{}, finerr.Wrap(op, err, fmt.Sprintf("invoice %s", inv.ID))
	}

	ev := p.log.Info().
		Str("invoice_id", inv.ID).
		Str("payment_state", string(inv.PaymentState)).
		Int64("cash_movement", int64(posting.CashMovement)).
		Int64("fund_balance", int64(f.Balance))
	if posting.Debt != nil {
		ev = ev.Str("debt_id", posting.Debt.ID).Int64("debt_remaining", int64(posting.Debt.Remaining))
	}
	if posting.Advance != nil {
		ev = ev.Str("advance_id", posting.Advance.ID)
	}
	ev.Msg("Invoice posted")
	return posting, f, nil
}

// CollectDebtPayment applies amount to d and moves it through fund. A zero at means now.
func (p *Poster) CollectDebtPayment(d models.Debt, fund models.Fund, amount money.Amount, at time.Time) (models.Debt, models.Fund, error) {
	const op = "CollectDebtPayment"

	if at.IsZero() {
		at = p.now()
	}
	paid, f, err := CollectDebtPayment(d, fund, amount, at)
	if err != nil {
		p.log.Warn().Err(err).Str("debt_id", d.ID).Int64("amount", int64(amount)).Msg("Debt payment rejected")
		return models.Debt{}, models.Fund{}, finerr.Wrap(op, err, fmt.Sprintf("debt %s", d.ID))
	}

	p.log.Info().
		Str("debt_id", paid.ID).
		Int64("amount", int64(amount)).
		Int64("remaining", int64(paid.Remaining)).
		Str("status", string(paid.Status)).
		Int64("fund_balance", int64(f.Balance)).
		Msg("Debt payment collected")
	return paid, f, nil
}
