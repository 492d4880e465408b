package smsmanprotocol

// Action keywords of the vendor's single-endpoint API. Preserved
// bit-for-bit: the frontend passes them through unchanged.
const (
	GetNumberAction  = "get-number"
	SetStatusAction  = "set-status"
	GetStatusAction  = "get-status"
	GetPricesAction  = "get-prices"
	GetBalanceAction = "get-balance"
)

// Status keywords accepted by set-status.
const (
	ReadyStatus  = "ready"
	CloseStatus  = "close"
	RejectStatus = "reject"
	UsedStatus   = "used"
)

type Error struct {
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

type Number struct {
	RequestID     int64  `json:"request_id"`
	Number        string `json:"number"`
	CountryID     int    `json:"country_id"`
	ApplicationID int    `json:"application_id"`
}

type Status struct {
	RequestID int64  `json:"request_id"`
	Status    string `json:"status"`
	SMSCode   string `json:"sms_code"`
}

// PriceRow is one row of the flat get-prices listing. Field names are
// the vendor's own and differ from the other vendor's nesting.
type PriceRow struct {
	CountryID     int     `json:"country_id"`
	ApplicationID int     `json:"application_id"`
	Cost          float64 `json:"cost"`
	Count         int     `json:"count"`
}

type Balance struct {
	Balance string `json:"balance"`
}
