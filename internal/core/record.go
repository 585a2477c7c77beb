package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// Actions an investment transaction can carry. Deposits and withdrawals
// move cash in and out of the portfolio; buys and sells move cash between
// the cash balance and holdings.
const (
	ActionDeposit  = "Deposit"
	ActionWithdraw = "Withdraw"
	ActionBuy      = "Buy"
	ActionSell     = "Sell"
)

var (
	ErrMissingID     = errors.New("record id is required")
	ErrMissingName   = errors.New("asset name is required")
	ErrMissingAction = errors.New("transaction action is required")
	ErrInvalidDate   = errors.New("invalid date value")
)

type (
	// AssetSnapshot is the valuation of a named asset on a given date.
	// Date holds the display form (raw cell text when it could not be
	// parsed); the parsed form stays inside this package and is never
	// serialized.
	AssetSnapshot struct {
		ID       string  `json:"id"`
		Date     string  `json:"date"`
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`

		when time.Time
	}

	// Transaction is one investment transaction row. Qty and Price keep
	// the cell text as written: they are blank for deposits and
	// withdrawals, and the DCA engine wants to see malformed values
	// rather than a silent zero.
	Transaction struct {
		ID       string  `json:"id"`
		Date     string  `json:"date"`
		Action   string  `json:"action"`
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Qty      string  `json:"qty"`
		Price    string  `json:"price"`
		Amount   float64 `json:"amount"`
		Note     string  `json:"note"`

		when time.Time
	}

	// Dividend is one dividend payment row.
	Dividend struct {
		ID         string  `json:"id"`
		Date       string  `json:"date"`
		Name       string  `json:"name"`
		Category   string  `json:"category"`
		Amount     float64 `json:"amount"`
		Reinvested string  `json:"reinvested"`
		Note       string  `json:"note"`

		when time.Time
	}

	// CategorySetting configures one allocation category.
	CategorySetting struct {
		Name   string  `json:"name"`
		Active bool    `json:"active"`
		Target float64 `json:"target"` // target share of the portfolio, percent
	}

	// AssetSetting whitelists one asset name for the per-asset pivot and
	// the entry form dropdowns.
	AssetSetting struct {
		Name   string `json:"name"`
		Active bool   `json:"active"`
	}
)

// Write-path inputs as they arrive from a form. Construction parses and
// validates them into records; see NewAssetSnapshot and friends.
type (
	AssetInput struct {
		Date     string
		Name     string
		Category string
		Amount   string
	}

	TransactionInput struct {
		Date     string
		Action   string
		Name     string
		Category string
		Qty      string
		Price    string
		Amount   string
		Note     string
	}

	DividendInput struct {
		Date       string
		Name       string
		Category   string
		Amount     string
		Reinvested string
		Note       string
	}
)

// NewAssetSnapshot validates one write-path asset row. The date must
// parse and id and name must be non-empty; amounts fall back to zero like
// everywhere else.
func NewAssetSnapshot(id string, in AssetInput) (AssetSnapshot, error) {
	when, ok := ParseDate(in.Date)
	if !ok {
		return AssetSnapshot{}, ErrInvalidDate
	}
	id = strings.TrimSpace(id)
	name := strings.TrimSpace(in.Name)
	if id == "" {
		return AssetSnapshot{}, ErrMissingID
	}
	if name == "" {
		return AssetSnapshot{}, ErrMissingName
	}
	return AssetSnapshot{
		ID:       id,
		Date:     FormatDate(when),
		Name:     name,
		Category: strings.TrimSpace(in.Category),
		Amount:   ParseAmount(in.Amount),
		when:     when,
	}, nil
}

// SheetRow returns the values in worksheet column order:
// ID, Date, Amount, Description, Category. Dates are written ISO.
func (a AssetSnapshot) SheetRow() []any {
	return []any{a.ID, FormatDateISO(a.when), a.Amount, a.Name, a.Category}
}

// NewTransaction validates one write-path transaction row. Besides the
// asset-row rules the action must be present. Quantity and price are
// optional; when given they are normalized to plain numbers.
func NewTransaction(id string, in TransactionInput) (Transaction, error) {
	when, ok := ParseDate(in.Date)
	if !ok {
		return Transaction{}, ErrInvalidDate
	}
	id = strings.TrimSpace(id)
	name := strings.TrimSpace(in.Name)
	action := strings.TrimSpace(in.Action)
	if id == "" {
		return Transaction{}, ErrMissingID
	}
	if name == "" {
		return Transaction{}, ErrMissingName
	}
	if action == "" {
		return Transaction{}, ErrMissingAction
	}
	return Transaction{
		ID:       id,
		Date:     FormatDate(when),
		Action:   action,
		Name:     name,
		Category: strings.TrimSpace(in.Category),
		Qty:      normalizeNumberText(in.Qty),
		Price:    normalizeNumberText(in.Price),
		Amount:   ParseAmount(in.Amount),
		Note:     strings.TrimSpace(in.Note),
		when:     when,
	}, nil
}

// SheetRow returns the values in worksheet column order:
// ID, Date, Action, Asset, Category, Quantity, Unit Price, Total Amount,
// Note. Absent quantity and price cells stay empty rather than zero.
func (t Transaction) SheetRow() []any {
	var qty, price any = "", ""
	if v, ok := parseNumber(t.Qty); ok {
		qty = v
	}
	if v, ok := parseNumber(t.Price); ok {
		price = v
	}
	return []any{t.ID, FormatDateISO(t.when), t.Action, t.Name, t.Category, qty, price, t.Amount, t.Note}
}

// FlowAmount returns the transaction's contribution to net cash flow:
// deposits count positive, withdrawals negative. Buys and sells move cash
// inside the portfolio and contribute nothing here; the DCA engine is the
// consumer that cares about them.
func (t Transaction) FlowAmount() float64 {
	switch strings.ToLower(t.Action) {
	case "deposit":
		return math.Abs(t.Amount)
	case "withdraw":
		return -math.Abs(t.Amount)
	}
	return 0
}

// NewDividend validates one write-path dividend row. The reinvested flag
// normalizes to Yes/No, defaulting to No.
func NewDividend(id string, in DividendInput) (Dividend, error) {
	when, ok := ParseDate(in.Date)
	if !ok {
		return Dividend{}, ErrInvalidDate
	}
	id = strings.TrimSpace(id)
	name := strings.TrimSpace(in.Name)
	if id == "" {
		return Dividend{}, ErrMissingID
	}
	if name == "" {
		return Dividend{}, ErrMissingName
	}
	return Dividend{
		ID:         id,
		Date:       FormatDate(when),
		Name:       name,
		Category:   strings.TrimSpace(in.Category),
		Amount:     ParseAmount(in.Amount),
		Reinvested: NormalizeReinvested(in.Reinvested),
		Note:       strings.TrimSpace(in.Note),
		when:       when,
	}, nil
}

// SheetRow returns the values in worksheet column order:
// ID, Date, Asset Name, Category, Dividend Amount, Reinvested, Note.
func (d Dividend) SheetRow() []any {
	return []any{d.ID, FormatDateISO(d.when), d.Name, d.Category, d.Amount, d.Reinvested, d.Note}
}

// NormalizeReinvested maps the many ways a truthy flag shows up in the
// sheet ("yes", "TRUE", "1") onto the canonical Yes/No pair.
func NormalizeReinvested(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1":
		return "Yes"
	}
	return "No"
}

// normalizeNumberText parses an optional numeric form field and renders it
// back as a plain number, keeping empty input empty. Unparseable input
// degrades to zero the way ParseAmount does.
func normalizeNumberText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return strconv.FormatFloat(ParseAmount(s), 'f', -1, 64)
}
