package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"finance/internal/finerr"
	"finance/internal/logger"
	"finance/internal/money"
	"finance/pkg/models"
)

// Service applies ledger operations and logs their outcome.
type Service struct {
	log zerolog.Logger
	now func() time.Time
}

// NewService creates a ledger service using the wall clock.
func NewService() *Service {
	return &Service{
		log: logger.WithComponent("ledger"),
		now: time.Now,
	}
}

// PayDebt applies a payment to d. A zero at means now.
func (s *Service) PayDebt(d models.Debt, amount money.Amount, at time.Time) (models.Debt, error) {
	const op = "ApplyPayment"

	if at.IsZero() {
		at = s.now()
	}
	out, err := ApplyPayment(d, amount, at)
	if err != nil {
		s.logRejection(err, "debt", d.ID, amount)
		return models.Debt{}, finerr.Wrap(op, err, fmt.Sprintf("debt %s", d.ID))
	}

	s.log.Info().
		Str("debt_id", out.ID).
		Str("owner", out.Owner.ID).
		Int64("amount", int64(amount)).
		Int64("remaining", int64(out.Remaining)).
		Str("status", string(out.Status)).
		Msg("Debt payment applied")
	return out, nil
}

// ReceiveAdvance records an advance for customerID.
func (s *Service) ReceiveAdvance(customerID, invoiceID string, amount money.Amount) (models.Advance, error) {
	const op = "ReceiveAdvance"

	adv, err := ReceiveAdvance(customerID, invoiceID, amount, s.now())
	if err != nil {
		s.log.Warn().Err(err).Str("customer_id", customerID).Msg("Advance rejected")
		return models.Advance{}, finerr.Wrap(op, err, fmt.Sprintf("customer %s", customerID))
	}

	s.log.Info().
		Str("advance_id", adv.ID).
		Str("customer_id", customerID).
		Int64("amount", int64(amount)).
		Msg("Advance received")
	return adv, nil
}

// RepayAdvance gives amount of a back to its customer. A zero at means now.
func (s *Service) RepayAdvance(a models.Advance, amount money.Amount, at time.Time) (models.Advance, error) {
	const op = "RepayAdvance"

	if at.IsZero() {
		at = s.now()
	}
	out, err := RepayAdvance(a, amount, at)
	if err != nil {
		s.logRejection(err, "advance", a.ID, amount)
		return models.Advance{}, finerr.Wrap(op, err, fmt.Sprintf("advance %s", a.ID))
	}

	s.log.Info().
		Str("advance_id", out.ID).
		Str("customer_id", out.CustomerID).
		Int64("amount", int64(amount)).
		Int64("remaining", int64(out.Remaining)).
		Str("status", string(out.Status)).
		Msg("Advance repayment applied")
	return out, nil
}

func (s *Service) logRejection(err error, record, id string, amount money.Amount) {
	if errors.Is(err, finerr.ErrDataIntegrity) {
		s.log.Error().Err(err).Str("record", record).Str("id", id).Msg("Stored ledger entry is inconsistent")
		return
	}
	s.log.Warn().
		Err(err).
		Str("record", record).
		Str("id", id).
		Int64("amount", int64(amount)).
		Msg("Ledger operation rejected")
}
