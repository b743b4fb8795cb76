package settlement

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"finance/internal/finerr"
	"finance/internal/logger"
)

// Distributor runs settlements and logs their outcome.
type Distributor struct {
	log zerolog.Logger
	now func() time.Time
}

// NewDistributor creates a distributor using the wall clock.
func NewDistributor() *Distributor {
	return &Distributor{
		log: logger.WithComponent("settlement"),
		now: time.Now,
	}
}

// Settle distributes req. A zero req.At means now.
func (d *Distributor) Settle(req Request) (Result, error) {
	const op = "Distribute"

	if req.At.IsZero() {
		req.At = d.now()
	}

	d.log.Debug().
		Str("workshop_id", req.Workshop.ID).
		Str("kind", string(req.Workshop.Kind)).
		Str("mode", string(req.Mode)).
		Int64("amount", int64(req.Amount)).
		Int64("balance", int64(req.Workshop.Balance)).
		Int("work_entries", len(req.WorkEntries)).
		Msg("Settling workshop")

	res, err := Distribute(req)
	if err != nil {
		var mismatch *finerr.MismatchError
		switch {
		case errors.As(err, &mismatch):
			d.log.Warn().
				Str("workshop_id", req.Workshop.ID).
				Int64("shortfall", mismatch.Shortfall()).
				Int64("excess", mismatch.Excess()).
				Msg("Manual split does not add up")
		case errors.Is(err, finerr.ErrDataIntegrity):
			d.log.Error().Err(err).Str("workshop_id", req.Workshop.ID).Msg("Stored workshop is inconsistent")
		default:
			d.log.Warn().Err(err).Str("workshop_id", req.Workshop.ID).Msg("Settlement rejected")
		}
		return Result{}, finerr.Wrap(op, err, fmt.Sprintf("workshop %s", req.Workshop.ID))
	}

	d.log.Info().
		Str("workshop_id", res.Workshop.ID).
		Str("settlement_id", res.Settlement.ID).
		Int64("amount", int64(res.Settlement.Amount)).
		Int("employees", len(res.Settlement.Distributions)).
		Int64("balance", int64(res.Workshop.Balance)).
		Msg("Workshop settled")
	return res, nil
}
