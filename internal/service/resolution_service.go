package service

import (
	"context"
	"log"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/model"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/polymarket"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/repository"
)

// ResolutionService applies known settlement prices to the user's trades:
// once a market's resolution price is stamped onto its fills, the pass
// recomputes each derived trade's pnl and outcome.
//
// The pass is re-runnable: recomputing an already-resolved trade with the
// same settlement price yields the same result.
type ResolutionService struct {
	fillRepo  *repository.FillRepository
	tradeRepo *repository.TradeRepository
	resolver  polymarket.Resolver
}

// NewResolutionService creates a new ResolutionService with the provided
// dependencies. resolver may be nil when settlement prices only arrive via
// manual stamping.
func NewResolutionService(
	fillRepo *repository.FillRepository,
	tradeRepo *repository.TradeRepository,
	resolver polymarket.Resolver,
) *ResolutionService {
	return &ResolutionService{
		fillRepo:  fillRepo,
		tradeRepo: tradeRepo,
		resolver:  resolver,
	}
}

// UpdateResolutions recomputes pnl and outcome for every trade of the user
// whose fill carries a settlement price. Returns the number of updated
// trades.
//
// Buy fills: pnl = (resolution − entry) × quantity. Sell fills:
// pnl = (exit − resolution) × quantity. Outcome is win iff pnl ≥ 0.
func (s *ResolutionService) UpdateResolutions(ctx context.Context, userID string) (int, error) {
	fills, err := s.fillRepo.GetResolvedFills(userID)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, f := range fills {
		pnl, outcome := resolveFill(f)
		if err := s.tradeRepo.UpdateResolution(ctx, userID, f.ID, pnl, outcome); err != nil {
			return updated, err
		}
		updated++
	}

	return updated, nil
}

// StampResolution records a settlement price on the user's fills in the
// given market and immediately re-runs the resolution pass. Returns how
// many fills were stamped.
func (s *ResolutionService) StampResolution(ctx context.Context, userID, marketID string, price float64) (int64, error) {
	stamped, err := s.fillRepo.StampResolution(ctx, userID, marketID, price)
	if err != nil {
		return 0, err
	}
	if stamped == 0 {
		return 0, nil
	}

	if _, err := s.UpdateResolutions(ctx, userID); err != nil {
		return stamped, err
	}
	return stamped, nil
}

// FetchResolutions queries the resolver for each of the user's unresolved
// markets and stamps any settlement price it finds. Markets the resolver
// cannot answer for are skipped and retried on the next pass.
func (s *ResolutionService) FetchResolutions(ctx context.Context, userID string) (int, error) {
	if s.resolver == nil {
		return 0, nil
	}

	marketIDs, err := s.fillRepo.GetUnresolvedMarketIDs(userID)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, marketID := range marketIDs {
		price, err := s.resolver.ResolutionPrice(ctx, marketID)
		if err != nil {
			log.Printf("resolution lookup failed for market %s: %v", marketID, err)
			continue
		}
		if price == nil {
			continue
		}

		if _, err := s.fillRepo.StampResolution(ctx, userID, marketID, *price); err != nil {
			return resolved, err
		}
		resolved++
	}

	if resolved > 0 {
		if _, err := s.UpdateResolutions(ctx, userID); err != nil {
			return resolved, err
		}
	}
	return resolved, nil
}

func resolveFill(f model.Fill) (float64, model.Outcome) {
	res := *f.ResolutionPrice

	var pnl float64
	if f.Side == model.SideBuy {
		pnl = (res - f.Price) * f.Quantity
	} else {
		pnl = (f.Price - res) * f.Quantity
	}

	outcome := model.OutcomeLoss
	if pnl >= 0 {
		outcome = model.OutcomeWin
	}
	return pnl, outcome
}
