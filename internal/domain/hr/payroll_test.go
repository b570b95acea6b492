package hr

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePeriod(t *testing.T) {
	assert.NoError(t, ValidatePeriod("2026-01"))
	assert.NoError(t, ValidatePeriod("2026-12"))
	assert.Error(t, ValidatePeriod("2026-13"))
	assert.Error(t, ValidatePeriod("26-01"))
	assert.Error(t, ValidatePeriod(""))
}

func TestPayroll_Lifecycle(t *testing.T) {
	emp, err := NewEmployee(uuid.New(), "Ada", "Lovelace", decimal.NewFromInt(5000))
	require.NoError(t, err)

	p := NewPayroll(emp, "2026-04")
	assert.Equal(t, PayrollPending, p.Status)
	assert.True(t, p.NetSalary.Equal(decimal.NewFromInt(5000)))
	assert.True(t, p.Bonus.IsZero())

	require.NoError(t, p.Adjust(decimal.NewFromInt(500), decimal.NewFromInt(200)))
	assert.True(t, p.NetSalary.Equal(decimal.NewFromInt(5300)))

	require.NoError(t, p.MarkPaid())
	assert.NotNil(t, p.PaidAt)
	assert.Error(t, p.Adjust(decimal.Zero, decimal.Zero))
	assert.Error(t, p.CanDelete())
	assert.Error(t, p.MarkPaid())
}
