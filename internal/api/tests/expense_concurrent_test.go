package api_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hluo1267/tripmate-server/internal/api/testutils"
	"github.com/hluo1267/tripmate-server/internal/models"
)

// A reader listing expenses while writers are recording them must never
// observe a group without its shares: group and shares commit together.
func TestConcurrentExpenseRecording(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	tripID := createTestTrip(t, testCtx)
	bobID, _ := testutils.CreateTestUser(t, testCtx.Service, "bob", "Bob B")

	const numWriters = 8
	const expensesPerWriter = 5
	const sharesPerExpense = 3

	ctx := context.Background()

	stop := make(chan struct{})
	readerDone := make(chan struct{})
	var readerErr error

	// Reader polls the trip's expenses for partially visible writes
	go func() {
		defer close(readerDone)
		for {
			select {
			case <-stop:
				return
			default:
			}

			expenses, err := testCtx.Service.ListTripExpenses(ctx, tripID)
			if err != nil {
				readerErr = err
				return
			}

			for _, expense := range expenses {
				if len(expense.Shares) != sharesPerExpense {
					readerErr = fmt.Errorf(
						"observed expense %s with %d shares, want %d",
						expense.ExpenseID, len(expense.Shares), sharesPerExpense)
					return
				}
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < numWriters; i++ {
		wg.Add(1)
		go func(writerID int) {
			defer wg.Done()

			for j := 0; j < expensesPerWriter; j++ {
				shares := make([]models.ExpenseShareRequest, sharesPerExpense)
				for k := range shares {
					shares[k] = models.ExpenseShareRequest{
						OwedByUserID: bobID,
						Amount:       int64(100 * (k + 1)),
					}
				}

				_, err := testCtx.Service.RecordExpense(ctx, tripID, models.CreateExpenseRequest{
					PaidByUserID: testCtx.TestUserID,
					Description:  fmt.Sprintf("concurrent expense %d-%d", writerID, j),
					Shares:       shares,
				})
				assert.NoError(t, err)
			}
		}(i)
	}

	wg.Wait()
	close(stop)
	<-readerDone

	require.NoError(t, readerErr, "reader observed a partially committed expense")

	// Every write landed and the summary reflects all of them
	expenses, err := testCtx.Service.ListTripExpenses(ctx, tripID)
	require.NoError(t, err)
	assert.Len(t, expenses, numWriters*expensesPerWriter)

	summary, err := testCtx.Service.SummarizeTrip(ctx, tripID)
	require.NoError(t, err)

	perExpense := int64(100 + 200 + 300)
	assert.Equal(t, perExpense*numWriters*expensesPerWriter, summary["testuser"]["bob"])
}
