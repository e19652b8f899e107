// Package sheets defines the outbound port the ledger mirror writes
// through. Implementations live in subpackages.
package sheets

import "context"

// RowWriter replaces the whole content of a spreadsheet tab.
type RowWriter interface {
	ReplaceRows(ctx context.Context, values [][]interface{}) error
}
