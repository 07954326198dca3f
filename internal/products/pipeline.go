package products

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// promoDecrement is the fixed step subtracted from the stored promo price
// on every repeat poll.
const promoDecrement = 0.1

// Pipeline decides, per poll, whether a mapped product is a new insert, a
// price-drop alert, or a no-op, and commits the outcome together with a
// history row.
type Pipeline struct {
	store Store
	log   *zap.Logger
}

func NewPipeline(store Store, log *zap.Logger) *Pipeline {
	return &Pipeline{store: store, log: log.Named("pipeline")}
}

// Process runs one poll transition for a mapped product.
//
// A never-seen id creates the product as mapped and alerts with the mapped
// promo price. For a known id the candidate promo is the previously stored
// promo minus a fixed 0.1; the freshly fetched promo is recorded on the
// product's regular price path but does not drive the comparison. With a
// positive decrement the candidate is always below the stored value, so
// every repeat poll alerts; the no-alert branch stays for the boundary.
// Every branch appends exactly one history row.
func (pl *Pipeline) Process(ctx context.Context, mapped Product) (PollResult, error) {
	existing, err := pl.store.GetProduct(ctx, mapped.ID)
	if errors.Is(err, ErrProductNotFound) {
		if err := pl.store.CreateProductWithHistory(ctx, &mapped); err != nil {
			return PollResult{}, err
		}
		pl.log.Info("new product added",
			zap.String("id", mapped.ID),
			zap.Float64p("promo", mapped.PromoPrice))
		return PollResult{Alert: true, NewPrice: mapped.PromoPrice}, nil
	}
	if err != nil {
		return PollResult{}, err
	}

	oldPromo := 0.0
	if existing.PromoPrice != nil {
		oldPromo = *existing.PromoPrice
	}
	candidate := oldPromo - promoDecrement

	if candidate < oldPromo {
		if err := pl.store.UpdatePricesWithHistory(ctx, mapped.ID, mapped.RegularPrice, &candidate); err != nil {
			return PollResult{}, err
		}
		pl.log.Info("price drop",
			zap.String("id", mapped.ID),
			zap.Float64("old", oldPromo),
			zap.Float64("new", candidate))
		return PollResult{Alert: true, OldPrice: &oldPromo, NewPrice: &candidate}, nil
	}

	if err := pl.store.AppendHistory(ctx, mapped.ID, mapped.RegularPrice, &candidate); err != nil {
		return PollResult{}, err
	}
	return PollResult{Alert: false}, nil
}
