package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

type SourceConfig struct {
	BaseURL string
	Base    string
	Quote   string
	Timeout time.Duration
}

// OpenRatesSource reads the {"rates": {"NGN": 1520.4}} shape served by
// the open exchange-rate mirrors.
type OpenRatesSource struct {
	http *resty.Client
	cfg  SourceConfig
}

func NewOpenRatesSource(cfg SourceConfig) *OpenRatesSource {
	return &OpenRatesSource{
		http: resty.New().SetBaseURL(cfg.BaseURL).SetTimeout(cfg.Timeout),
		cfg:  cfg,
	}
}

func (s *OpenRatesSource) Rate(ctx context.Context) (decimal.Decimal, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetPathParam("base", s.cfg.Base).
		Get("/v6/latest/{base}")
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate request failed: %w", err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("rate source returned status %d", resp.StatusCode())
	}
	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return decimal.Zero, fmt.Errorf("error unmarshalling rate response: %w", err)
	}
	rate, ok := body.Rates[s.cfg.Quote]
	if !ok {
		return decimal.Zero, fmt.Errorf("rate for %s not present in response", s.cfg.Quote)
	}
	return decimal.NewFromFloat(rate), nil
}

// PairSource reads the single-pair {"result": 1520.4} shape.
type PairSource struct {
	http *resty.Client
	cfg  SourceConfig
}

func NewPairSource(cfg SourceConfig) *PairSource {
	return &PairSource{
		http: resty.New().SetBaseURL(cfg.BaseURL).SetTimeout(cfg.Timeout),
		cfg:  cfg,
	}
}

func (s *PairSource) Rate(ctx context.Context) (decimal.Decimal, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"base":  s.cfg.Base,
			"quote": s.cfg.Quote,
		}).
		Get("/v6/pair/{base}/{quote}")
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate request failed: %w", err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("rate source returned status %d", resp.StatusCode())
	}
	var body struct {
		Result float64 `json:"result"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return decimal.Zero, fmt.Errorf("error unmarshalling rate response: %w", err)
	}
	if body.Result <= 0 {
		return decimal.Zero, fmt.Errorf("rate source returned non-positive rate %v", body.Result)
	}
	return decimal.NewFromFloat(body.Result), nil
}
