package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"draft", "submitted", "approved", "received", "cancelled"} {
		st, err := ParseOrderStatus(s)
		require.NoError(t, err)
		assert.Equal(t, OrderStatus(s), st)
	}

	_, err := ParseOrderStatus("shipped")
	assert.Error(t, err)
	_, err = ParseOrderStatus("DRAFT")
	assert.Error(t, err)
}

func TestValidateTransition_IsPermissive(t *testing.T) {
	for _, from := range orderStatuses {
		for _, to := range orderStatuses {
			assert.NoError(t, ValidateTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.Error(t, ValidateTransition(OrderDraft, "lost"))
}

func TestPurchaseOrder_ApplyStatus(t *testing.T) {
	at := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	o := PurchaseOrder{Status: OrderDraft}

	require.NoError(t, o.ApplyStatus(OrderSubmitted, at))
	require.NotNil(t, o.SubmittedAt)
	assert.Equal(t, at, *o.SubmittedAt)
	assert.Nil(t, o.ApprovedAt)

	require.NoError(t, o.ApplyStatus(OrderReceived, at.Add(time.Hour)))
	require.NotNil(t, o.ReceivedAt)
	assert.Equal(t, OrderReceived, o.Status)
	assert.True(t, o.Status.IsTerminal())
}

func TestPurchaseOrder_TotalItems(t *testing.T) {
	o := PurchaseOrder{Items: []PurchaseOrderItem{{Quantity: 3}, {Quantity: 0}, {Quantity: 12}}}
	assert.Equal(t, 15, o.TotalItems())
}
