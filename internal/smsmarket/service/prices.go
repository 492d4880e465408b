package service

import (
	"context"
	"fmt"

	"sms-market/internal/common/clientprotocol"
	"sms-market/internal/smsmarket/pricing"
)

// Prices recomputes the flattened listing per request; nothing is
// persisted, the vendor listing is the source of truth.
type Prices struct {
	fivesim FiveSimClient
	smsman  SMSManClient
}

func NewPrices(fivesim FiveSimClient, smsman SMSManClient) *Prices {
	return &Prices{
		fivesim: fivesim,
		smsman:  smsman,
	}
}

func (p *Prices) GetPrices(ctx context.Context, vendor, country, product string) ([]clientprotocol.PriceEntry, error) {
	switch vendor {
	case FiveSimVendor, "":
		prices, err := p.fivesim.Prices(ctx, country, product)
		if err != nil {
			return nil, fmt.Errorf("error getting vendor prices: %w", err)
		}
		return pricing.Flatten(prices, pricing.Filter{Country: country, Product: product}), nil
	case SMSManVendor:
		rows, err := p.smsman.GetPrices(ctx)
		if err != nil {
			return nil, fmt.Errorf("error getting vendor prices: %w", err)
		}
		return pricing.FlattenRows(rows), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVendor, vendor)
	}
}
