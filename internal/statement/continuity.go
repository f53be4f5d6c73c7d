package statement

import "github.com/shopspring/decimal"

// ContinuousInFile reports whether every row's opening balance equals the
// previous row's closing balance, in file order. An empty file is continuous.
func ContinuousInFile(rows []Row) bool {
	for i := 1; i < len(rows); i++ {
		if !rows[i].Opening().Equal(rows[i-1].Balance) {
			return false
		}
	}
	return true
}

// FirstBreak returns the number of the first row whose opening balance does not
// follow the previous row, or 0 when the file is continuous.
func FirstBreak(rows []Row) int {
	for i := 1; i < len(rows); i++ {
		if !rows[i].Opening().Equal(rows[i-1].Balance) {
			return rows[i].Number
		}
	}
	return 0
}

// MatchesPrevious reports whether the first row opens at the closing balance
// of the last stored transaction. With no stored transaction it passes.
func MatchesPrevious(rows []Row, previousClosing *decimal.Decimal) bool {
	if len(rows) == 0 || previousClosing == nil {
		return true
	}
	return rows[0].Opening().Equal(*previousClosing)
}
