// Package statement turns bank-statement CSV exports into typed rows.
//
// The package is storage-free. Header aliasing, value parsing, signing, dedupe
// keys and balance continuity are used by both the upload service and the CLI.
package statement

import "strings"

// Field is a canonical statement column.
type Field string

// Canonical statement columns.
const (
	FieldDate      Field = "date"
	FieldNarration Field = "narration"
	FieldCredit    Field = "credit"
	FieldDebit     Field = "debit"
	FieldBalance   Field = "balance"
	FieldUTR       Field = "utr"
	FieldType      Field = "type"
	FieldAmount    Field = "amount"
)

type aliasEntry struct {
	field   Field
	aliases []string
}

// aliasTable is searched in order; within a field the first alias present wins.
var aliasTable = []aliasEntry{
	{FieldDate, []string{"date", "transaction date", "value date", "posting date", "tran date", "txn date", "value dt", "val dt"}},
	{FieldNarration, []string{"narration", "description", "details", "particulars", "remarks", "transaction remarks", "narration/description"}},
	{FieldCredit, []string{"credit", "cr", "deposit", "credit amount", "cr amount", "deposit amt.", "deposit amt", "deposit amount", "deposit (cr)"}},
	{FieldDebit, []string{"debit", "dr", "withdrawal", "debit amount", "dr amount", "withdrawal amt.", "withdrawal amt", "withdrawal amount", "withdrawal (dr)"}},
	{FieldBalance, []string{"balance", "running balance", "closing balance", "available balance", "balance amt.", "balance amount", "closing bal", "available bal"}},
	{FieldUTR, []string{"utr", "utr number", "utr no", "utr#", "reference", "transaction id", "ref no", "chq/ref no", "cheque/ref no", "reference no", "ref#", "rrn", "upi ref no"}},
	{FieldType, []string{"type", "txn type", "transaction type", "dr/cr", "cr/dr"}},
	{FieldAmount, []string{"amount", "txn amount", "transaction amount", "amt."}},
}

var requiredFields = []Field{FieldDate, FieldNarration, FieldBalance}

// Fields returns every canonical field in lookup order.
func Fields() []Field {
	out := make([]Field, len(aliasTable))
	for i, e := range aliasTable {
		out[i] = e.field
	}
	return out
}

// Aliases returns a copy of the known header synonyms for f.
func Aliases(f Field) []string {
	for _, e := range aliasTable {
		if e.field == f {
			return append([]string(nil), e.aliases...)
		}
	}
	return nil
}

// RequiredFields returns the fields an upload cannot proceed without.
func RequiredFields() []Field {
	return append([]Field(nil), requiredFields...)
}

// NormalizeHeader lowercases a header cell and collapses its whitespace.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// HeaderMap maps canonical fields to the column names found in a file.
type HeaderMap map[Field]string

// MapHeaders detects canonical fields among the given header cells.
// Fields with no matching column are absent from the result.
func MapHeaders(headers []string) HeaderMap {
	present := make(map[string]string, len(headers))
	for _, h := range headers {
		n := NormalizeHeader(h)
		if n == "" {
			continue
		}
		if _, dup := present[n]; !dup {
			present[n] = h
		}
	}

	m := make(HeaderMap)
	for _, e := range aliasTable {
		for _, alias := range e.aliases {
			if col, ok := present[alias]; ok {
				m[e.field] = col
				break
			}
		}
	}
	return m
}

// Has reports whether f was detected.
func (m HeaderMap) Has(f Field) bool {
	_, ok := m[f]
	return ok
}

// Missing returns the required fields that were not detected, in canonical order.
func (m HeaderMap) Missing() []Field {
	var missing []Field
	for _, f := range requiredFields {
		if !m.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}
