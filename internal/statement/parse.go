package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order; single-digit day and month are accepted.
var dateLayouts = []string{
	"2-Jan-06",
	"2-Jan-2006",
	"2/1/2006",
	"2006-1-2",
	"2-1-2006",
	"2.1.2006",
}

var nullAmounts = map[string]bool{"na": true, "n/a": true, "null": true, "-": true}

var amountCleaner = strings.NewReplacer("₹", "", "INR", "", ",", "", "\u00a0", "")

// DateFormatError reports a date cell that matched no known layout.
type DateFormatError struct {
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("unrecognized date format: %q", e.Value)
}

// AmountFormatError reports a money cell that is not a number.
type AmountFormatError struct {
	Field Field
	Value string
}

func (e *AmountFormatError) Error() string {
	return fmt.Sprintf("invalid %s amount: %q", e.Field, e.Value)
}

// ParseDate parses a statement date cell into a UTC calendar date.
func ParseDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, &DateFormatError{Value: value}
}

// ParseAmount parses a money cell. Blank and placeholder cells are null;
// parenthesised values are negative.
func ParseAmount(value string) (decimal.NullDecimal, error) {
	s := strings.TrimSpace(value)
	if s == "" || nullAmounts[strings.ToLower(s)] {
		return decimal.NullDecimal{}, nil
	}

	s = strings.TrimSpace(amountCleaner.Replace(s))
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.TrimSpace(s[1:len(s)-1])
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, &AmountFormatError{Value: value}
	}
	return decimal.NewNullDecimal(d), nil
}

// Round2 rounds to two decimal places, ties away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SignedAmount is credit when present, otherwise the negated debit, otherwise zero.
func SignedAmount(credit, debit decimal.NullDecimal) decimal.Decimal {
	switch {
	case credit.Valid:
		return Round2(credit.Decimal)
	case debit.Valid:
		return Round2(debit.Decimal.Neg())
	default:
		return decimal.Zero
	}
}

// Row is one successfully parsed statement line.
type Row struct {
	Number    int
	Date      time.Time
	Narration string
	Credit    decimal.NullDecimal
	Debit     decimal.NullDecimal
	Balance   decimal.Decimal
	UTR       *string
	Signed    decimal.Decimal
}

// Opening is the balance before this row was applied.
func (r Row) Opening() decimal.Decimal {
	return r.Balance.Sub(r.Signed)
}

// DedupeKey is the content hash of the row.
func (r Row) DedupeKey() string {
	return DedupeKey(r.Date, r.Narration, r.Signed, r.UTR)
}

// RowError ties a parse failure to its CSV row number.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// rowParser resolves canonical fields to record positions once per file.
type rowParser struct {
	columns map[Field]int
}

func newRowParser(headers []string, mapping HeaderMap) *rowParser {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	columns := make(map[Field]int, len(mapping))
	for f, col := range mapping {
		if i, ok := index[col]; ok {
			columns[f] = i
		}
	}
	return &rowParser{columns: columns}
}

// cell returns the raw value of f and whether the column exists in this record.
func (p *rowParser) cell(record []string, f Field) (string, bool) {
	i, ok := p.columns[f]
	if !ok || i >= len(record) {
		return "", false
	}
	return record[i], true
}

func (p *rowParser) amount(record []string, f Field) (decimal.NullDecimal, error) {
	raw, ok := p.cell(record, f)
	if !ok {
		return decimal.NullDecimal{}, nil
	}
	v, err := ParseAmount(raw)
	if err != nil {
		return v, &AmountFormatError{Field: f, Value: raw}
	}
	return v, nil
}

func (p *rowParser) parse(number int, record []string) (Row, error) {
	row := Row{Number: number}

	rawDate, _ := p.cell(record, FieldDate)
	date, err := ParseDate(rawDate)
	if err != nil {
		return row, err
	}
	row.Date = date
	row.Narration, _ = p.cell(record, FieldNarration)

	balance, err := p.amount(record, FieldBalance)
	if err != nil {
		return row, err
	}
	if balance.Valid {
		row.Balance = balance.Decimal
	} else {
		row.Balance = decimal.Zero
	}

	if row.Credit, err = p.amount(record, FieldCredit); err != nil {
		return row, err
	}
	if row.Debit, err = p.amount(record, FieldDebit); err != nil {
		return row, err
	}

	if utr, ok := p.cell(record, FieldUTR); ok {
		if utr = strings.TrimSpace(utr); utr != "" {
			row.UTR = &utr
		}
	}

	if !row.Credit.Valid && !row.Debit.Valid {
		_, hasAmount := p.cell(record, FieldAmount)
		kind, hasType := p.cell(record, FieldType)
		if hasAmount && hasType {
			amt, err := p.amount(record, FieldAmount)
			if err != nil {
				return row, err
			}
			if !amt.Valid {
				amt = decimal.NewNullDecimal(decimal.Zero)
			}
			switch strings.ToLower(strings.TrimSpace(kind)) {
			case "cr", "credit":
				row.Credit = amt
			case "dr", "debit":
				row.Debit = amt
			}
		}
	}

	row.Signed = SignedAmount(row.Credit, row.Debit)
	return row, nil
}
