package listing

import (
	"testing"
	"time"

	"finance-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(id int64, category, amount string, day int) domain.Expense {
	return domain.Expense{
		ID:       id,
		Category: category,
		Amount:   domain.MustAmount(amount),
		Date:     time.Date(2024, time.March, day, 12, 0, 0, 0, time.UTC),
	}
}

func ids(list []domain.Expense) []int64 {
	out := make([]int64, 0, len(list))
	for _, e := range list {
		out = append(out, e.ID)
	}
	return out
}

func TestParse(t *testing.T) {
	q, err := Parse("", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, Query{}, q)

	q, err = Parse(" all ", "2024-03-01", "2024-03-31T10:00:00+02:00", "Amount-Desc")
	require.NoError(t, err)
	assert.Empty(t, q.Category)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), q.From)
	assert.Equal(t, time.Date(2024, time.March, 31, 23, 59, 59, 999999999, time.UTC), q.To)
	assert.Equal(t, SortAmountDesc, q.Sort)

	tests := []struct {
		category, from, to, sort string
		field                    string
	}{
		{"", "yesterday", "", "", "from"},
		{"", "", "2024-13-01", "", "to"},
		{"", "2024-03-02", "2024-03-01", "", "to"},
		{"", "", "", "amount", "sort"},
	}
	for _, tt := range tests {
		_, err := Parse(tt.category, tt.from, tt.to, tt.sort)
		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, tt.field, fe.Field)
	}
}

func TestApplyFilters(t *testing.T) {
	list := []domain.Expense{
		expense(1, "Food", "10", 1),
		expense(2, "Rent", "1000", 1),
		expense(3, "Food", "5", 15),
		expense(4, "Food", "7", 31),
	}

	q, err := Parse("Food", "2024-03-01", "2024-03-15", "")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(q.Apply(list)))

	q, err = Parse("food", "", "", "")
	require.NoError(t, err)
	assert.Empty(t, q.Apply(list))
	assert.NotNil(t, q.Apply(nil))

	// the last day is inclusive
	q, err = Parse("", "2024-03-31", "2024-03-31", "")
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(q.Apply(list)))
}

func TestApplySortsByDecimalValue(t *testing.T) {
	list := []domain.Expense{
		expense(1, "A", "9.99", 3),
		expense(2, "A", "10.00", 1),
		expense(3, "A", "99999999.99", 2),
		expense(4, "A", "0.01", 2),
		expense(5, "A", "10", 4),
	}

	tests := []struct {
		sort string
		want []int64
	}{
		{"", []int64{1, 2, 3, 4, 5}},
		{SortAmountAsc, []int64{4, 1, 2, 5, 3}},
		{SortAmountDesc, []int64{3, 2, 5, 1, 4}},
		{SortDateAsc, []int64{2, 3, 4, 1, 5}},
		{SortDateDesc, []int64{5, 1, 3, 4, 2}},
	}
	for _, tt := range tests {
		q, err := Parse("", "", "", tt.sort)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ids(q.Apply(list)), tt.sort)
	}

	// input order is untouched
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(list))
}
