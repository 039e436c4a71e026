package balance

import (
	"math/rand"
	"testing"

	"github.com/hluo1267/tripmate-server/internal/models"
	"github.com/stretchr/testify/assert"
)

func expense(payer string, shares ...models.ShareDetail) models.ExpenseDetails {
	return models.ExpenseDetails{
		PaidByName: payer,
		Shares:     shares,
	}
}

func share(ower string, amount int64) models.ShareDetail {
	return models.ShareDetail{OwedByName: ower, Amount: amount}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		expenses []models.ExpenseDetails
		want     Matrix
	}{
		{
			name:     "no expenses yields empty matrix",
			expenses: nil,
			want:     Matrix{},
		},
		{
			name: "single expense single share",
			expenses: []models.ExpenseDetails{
				expense("Alice", share("Bob", 500)),
			},
			want: Matrix{"Alice": {"Bob": 500}},
		},
		{
			name: "same pair accumulates into one cell",
			expenses: []models.ExpenseDetails{
				expense("Alice", share("Bob", 500)),
				expense("Alice", share("Bob", 300)),
			},
			want: Matrix{"Alice": {"Bob": 800}},
		},
		{
			name: "reciprocal debts are not netted",
			expenses: []models.ExpenseDetails{
				expense("Alice", share("Bob", 1000)),
				expense("Bob", share("Alice", 400)),
			},
			want: Matrix{
				"Alice": {"Bob": 1000},
				"Bob":   {"Alice": 400},
			},
		},
		{
			name: "one payer many owers",
			expenses: []models.ExpenseDetails{
				expense("Alice", share("Bob", 2000), share("Charlie", 3000)),
			},
			want: Matrix{"Alice": {"Bob": 2000, "Charlie": 3000}},
		},
		{
			name: "expense with zero shares contributes nothing",
			expenses: []models.ExpenseDetails{
				expense("Alice"),
				expense("Bob", share("Alice", 100)),
			},
			want: Matrix{"Bob": {"Alice": 100}},
		},
		{
			name: "zero amount share creates a zero cell",
			expenses: []models.ExpenseDetails{
				expense("Alice", share("Bob", 0)),
			},
			want: Matrix{"Alice": {"Bob": 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.expenses)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Summarize must produce the same matrix for any ordering of the input,
// since cells are built by commutative addition.
func TestSummarizeOrderIndependent(t *testing.T) {
	expenses := []models.ExpenseDetails{
		expense("Alice", share("Bob", 2000), share("Charlie", 3000)),
		expense("Bob", share("Alice", 400)),
		expense("Charlie", share("Alice", 150), share("Bob", 150)),
		expense("Alice", share("Bob", 725)),
	}

	want := Summarize(expenses)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]models.ExpenseDetails, len(expenses))
		copy(shuffled, expenses)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		assert.Equal(t, want, Summarize(shuffled))
	}
}

func TestTotalPaid(t *testing.T) {
	assert.Equal(t, int64(0), TotalPaid(nil))
	assert.Equal(t, int64(0), TotalPaid([]models.ExpenseShare{}))
	assert.Equal(t, int64(5000), TotalPaid([]models.ExpenseShare{
		{OwedBy: "bob", Amount: 2000},
		{OwedBy: "charlie", Amount: 3000},
	}))
}
