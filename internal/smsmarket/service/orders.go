package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"sms-market/internal/common/clientprotocol"
	"sms-market/internal/common/fivesimprotocol"
	"sms-market/internal/smsmarket/vendors"
	"sms-market/pkg/logging"
)

type Action string

const (
	CheckAction  Action = "check"
	CancelAction Action = "cancel"
	FinishAction Action = "finish"
	BanAction    Action = "ban"
)

const (
	FiveSimVendor = "5sim"
	SMSManVendor  = "sms-man"
)

// Orders is a pass-through dispatcher over the vendors' lifecycle
// endpoints. The vendor owns order state: every read re-queries it, and
// no status transition is ever fabricated locally.
type Orders struct {
	fivesim FiveSimClient
	smsman  SMSManClient
	logger  *logging.ZapLogger
}

type PurchaseParams struct {
	Vendor        string
	Country       string
	Operator      string
	Product       string
	CountryID     int
	ApplicationID int
}

func NewOrders(fivesim FiveSimClient, smsman SMSManClient, logger *logging.ZapLogger) *Orders {
	return &Orders{
		fivesim: fivesim,
		smsman:  smsman,
		logger:  logger,
	}
}

func (o *Orders) Purchase(ctx context.Context, params PurchaseParams) (clientprotocol.Order, error) {
	switch params.Vendor {
	case FiveSimVendor, "":
		if params.Country == "" || params.Operator == "" || params.Product == "" {
			return clientprotocol.Order{}, fmt.Errorf("%w: country, operator and product are required", ErrMissingParameter)
		}
		order, err := o.fivesim.BuyNumber(ctx, params.Country, params.Operator, params.Product)
		if err != nil {
			return clientprotocol.Order{}, translateVendorError(err)
		}
		return convertOrder(order, false), nil
	case SMSManVendor:
		if params.CountryID == 0 || params.ApplicationID == 0 {
			return clientprotocol.Order{}, fmt.Errorf("%w: country_id and application_id are required", ErrMissingParameter)
		}
		number, err := o.smsman.GetNumber(ctx, params.CountryID, params.ApplicationID)
		if err != nil {
			return clientprotocol.Order{}, translateVendorError(err)
		}
		return clientprotocol.Order{
			OrderID:     strconv.FormatInt(number.RequestID, 10),
			PhoneNumber: number.Number,
			Vendor:      SMSManVendor,
			Country:     strconv.Itoa(number.CountryID),
			Product:     strconv.Itoa(number.ApplicationID),
			Status:      clientprotocol.Pending,
		}, nil
	default:
		return clientprotocol.Order{}, fmt.Errorf("%w: %q", ErrUnknownVendor, params.Vendor)
	}
}

// Do dispatches an order id plus action keyword to the matching vendor
// endpoint and returns the vendor's view of the order.
func (o *Orders) Do(ctx context.Context, orderID int64, action Action) (clientprotocol.Order, error) {
	o.logger.DebugCtx(ctx, "dispatching order action",
		zap.Int64("orderID", orderID),
		zap.String("action", string(action)),
	)
	var (
		order fivesimprotocol.Order
		err   error
	)
	switch action {
	case CheckAction:
		order, err = o.fivesim.Check(ctx, orderID)
	case CancelAction:
		order, err = o.fivesim.Cancel(ctx, orderID)
	case FinishAction:
		order, err = o.fivesim.Finish(ctx, orderID)
	case BanAction:
		order, err = o.fivesim.Ban(ctx, orderID)
	default:
		return clientprotocol.Order{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if err != nil {
		return clientprotocol.Order{}, translateVendorError(err)
	}
	return convertOrder(order, false), nil
}

// Reuse requires both product and number before any network call.
func (o *Orders) Reuse(ctx context.Context, product, number string) (clientprotocol.Order, error) {
	if product == "" || number == "" {
		return clientprotocol.Order{}, fmt.Errorf("%w: product and number are required", ErrMissingParameter)
	}
	order, err := o.fivesim.Reuse(ctx, product, number)
	if err != nil {
		return clientprotocol.Order{}, translateVendorError(err)
	}
	return convertOrder(order, true), nil
}

// SetStatus forwards a set-status keyword to the sms-man vendor.
func (o *Orders) SetStatus(ctx context.Context, requestID int64, status string) (clientprotocol.Order, error) {
	if status == "" {
		return clientprotocol.Order{}, fmt.Errorf("%w: status is required", ErrMissingParameter)
	}
	result, err := o.smsman.SetStatus(ctx, requestID, status)
	if err != nil {
		return clientprotocol.Order{}, translateVendorError(err)
	}
	return clientprotocol.Order{
		OrderID: strconv.FormatInt(result.RequestID, 10),
		Vendor:  SMSManVendor,
		Status:  clientprotocol.OrderStatus(strings.ToUpper(result.Status)),
		SMSCode: result.SMSCode,
	}, nil
}

// GetStatus re-reads an sms-man order through the get-status keyword.
func (o *Orders) GetStatus(ctx context.Context, requestID int64) (clientprotocol.Order, error) {
	result, err := o.smsman.GetStatus(ctx, requestID)
	if err != nil {
		return clientprotocol.Order{}, translateVendorError(err)
	}
	return clientprotocol.Order{
		OrderID: strconv.FormatInt(result.RequestID, 10),
		Vendor:  SMSManVendor,
		Status:  clientprotocol.OrderStatus(strings.ToUpper(result.Status)),
		SMSCode: result.SMSCode,
	}, nil
}

// VendorBalances reads the remaining credit at both vendors. Either
// vendor failing fails the whole read; this is an operator diagnostic,
// a partial answer would hide the broken vendor.
func (o *Orders) VendorBalances(ctx context.Context) ([]clientprotocol.VendorBalance, error) {
	fiveSimBalance, err := o.fivesim.Balance(ctx)
	if err != nil {
		return nil, translateVendorError(err)
	}
	smsManBalance, err := o.smsman.GetBalance(ctx)
	if err != nil {
		return nil, translateVendorError(err)
	}
	smsManAmount, err := strconv.ParseFloat(smsManBalance.Balance, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable balance %q", vendors.ErrMalformed, smsManBalance.Balance)
	}
	return []clientprotocol.VendorBalance{
		{Vendor: FiveSimVendor, Amount: fiveSimBalance.Balance},
		{Vendor: SMSManVendor, Amount: smsManAmount},
	}, nil
}

// translateVendorError is the one place vendor error strings are
// matched. The vendors publish no formal error taxonomy, so these
// substring matches are fragile by nature: a wording change upstream
// degrades to the raw rejected error instead of a named result.
func translateVendorError(err error) error {
	rejected, ok := vendors.AsRejected(err)
	if !ok {
		return err
	}
	body := strings.ToLower(strings.Trim(strings.TrimSpace(rejected.Body), `"`))
	switch {
	case strings.Contains(body, fivesimprotocol.ErrTextOrderNotFound),
		strings.Contains(body, fivesimprotocol.ErrTextAlreadyCanceled),
		strings.Contains(body, fivesimprotocol.ErrTextAlreadyCancelled),
		strings.Contains(body, fivesimprotocol.ErrTextOrderExpired):
		return fmt.Errorf("%w: vendor said %q", ErrOrderNotFound, body)
	case strings.Contains(body, fivesimprotocol.ErrTextReuseNotPossible),
		strings.Contains(body, fivesimprotocol.ErrTextReuseFalse):
		return fmt.Errorf("%w: vendor said %q", ErrReuseNotPossible, body)
	case strings.Contains(body, fivesimprotocol.ErrTextReuseExpired):
		return fmt.Errorf("%w: vendor said %q", ErrReuseExpired, body)
	case strings.Contains(body, fivesimprotocol.ErrTextNotEnoughBalance):
		return fmt.Errorf("%w: vendor said %q", ErrNotEnoughVendorBalance, body)
	case strings.Contains(body, fivesimprotocol.ErrTextNoFreePhones):
		return fmt.Errorf("%w: vendor said %q", ErrNoFreePhones, body)
	}
	return err
}

func convertOrder(order fivesimprotocol.Order, reused bool) clientprotocol.Order {
	res := clientprotocol.Order{
		OrderID:     strconv.FormatInt(order.ID, 10),
		PhoneNumber: order.Phone,
		Vendor:      FiveSimVendor,
		Country:     order.Country,
		Operator:    order.Operator,
		Product:     order.Product,
		PriceLocal:  order.Price,
		Status:      clientprotocol.OrderStatus(order.Status),
		CreatedAt:   order.CreatedAt,
		ExpiresAt:   order.ExpiresAt,
		Reused:      reused,
	}
	if len(order.SMS) > 0 {
		res.SMSCode = order.SMS[len(order.SMS)-1].Code
	}
	return res
}
