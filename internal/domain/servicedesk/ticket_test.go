package servicedesk

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicket(t *testing.T) {
	productID := uuid.New()
	ticket, err := NewTicket(uuid.New(), uuid.New(), "Screen replacement", []PartInput{
		{ProductID: &productID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(120)},
		{Description: "Labour", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(30)},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, ticket.Status)
	assert.True(t, ticket.PartsTotal.Equal(decimal.NewFromInt(180)))
	require.Len(t, ticket.History, 1)
	assert.Equal(t, StatusOpen, ticket.History[0].ToStatus)

	_, err = NewTicket(uuid.New(), uuid.New(), "x", []PartInput{{Description: "bad", Quantity: decimal.Zero}})
	assert.Error(t, err)
}

func TestTicket_ChangeStatus(t *testing.T) {
	userID := uuid.New()
	ticket, err := NewTicket(uuid.New(), userID, "Battery", nil)
	require.NoError(t, err)

	entry, err := ticket.ChangeStatus(userID, StatusInProgress, "started")
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, entry.FromStatus)
	assert.Equal(t, StatusInProgress, entry.ToStatus)
	assert.Equal(t, StatusInProgress, ticket.Status)

	_, err = ticket.ChangeStatus(userID, StatusInProgress, "")
	assert.Error(t, err)

	_, err = ticket.ChangeStatus(userID, StatusClosed, "done")
	require.NoError(t, err)
	_, err = ticket.ChangeStatus(userID, StatusOpen, "reopen")
	assert.Error(t, err)
	assert.False(t, ticket.Status.IsOpen())
}
