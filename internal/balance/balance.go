package balance

import (
	"github.com/hluo1267/tripmate-server/internal/models"
)

// Matrix maps payer display name -> ower display name -> cumulative
// amount owed, in minor currency units.
//
// Reciprocal debts are kept in both directions on purpose: if Alice owes
// Bob in one expense and Bob owes Alice in another, both cells are
// populated and never offset against each other. The matrix is the full
// audit trail per direction, not a settlement plan.
//
// Keys are display names, so two users sharing a name would have their
// balances merged. The API contract exposes names to clients, which is
// why the key is not the user id.
type Matrix map[string]map[string]int64

// Summarize aggregates resolved expense groups into a debt matrix.
//
// Every share contributes its amount to matrix[payer][ower]. Addition is
// commutative, so the result is identical for any processing order of
// the input. An empty input yields an empty, non-nil matrix.
func Summarize(expenses []models.ExpenseDetails) Matrix {
	balances := make(Matrix)
	for _, expense := range expenses {
		for _, share := range expense.Shares {
			row, ok := balances[expense.PaidByName]
			if !ok {
				row = make(map[string]int64)
				balances[expense.PaidByName] = row
			}
			row[share.OwedByName] += share.Amount
		}
	}
	return balances
}

// TotalPaid derives the total of an expense group from its shares.
// The total is never stored; the shares are the single source of truth.
func TotalPaid(shares []models.ExpenseShare) int64 {
	var total int64
	for _, share := range shares {
		total += share.Amount
	}
	return total
}
