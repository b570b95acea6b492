package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_ValueAndScan(t *testing.T) {
	t.Run("nil list stores empty array", func(t *testing.T) {
		var l StringList
		v, err := l.Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", v)
	})

	t.Run("scan from bytes", func(t *testing.T) {
		var l StringList
		require.NoError(t, l.Scan([]byte(`["invoice.created","offer.converted"]`)))
		assert.Equal(t, StringList{"invoice.created", "offer.converted"}, l)
		assert.True(t, l.Contains("offer.converted"))
		assert.False(t, l.Contains("payroll.generated"))
	})

	t.Run("scan null", func(t *testing.T) {
		l := StringList{"x"}
		require.NoError(t, l.Scan(nil))
		assert.Empty(t, l)
	})

	t.Run("scan unsupported type", func(t *testing.T) {
		var l StringList
		assert.Error(t, l.Scan(42))
	})
}

func TestDomainError_Is(t *testing.T) {
	err := NewNotFoundError("Offer")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, NewBusinessRuleError("period exists"), NewDomainError(CodeBusinessRule, ""))
}

func TestFilter_Paging(t *testing.T) {
	f := DefaultFilter()
	f.Page = 3
	f.PageSize = 10
	assert.Equal(t, 20, f.Offset())
	assert.Equal(t, 10, f.Limit())

	f.PageSize = 1000
	assert.Equal(t, 100, f.Limit())

	g := f.With("status", "open")
	assert.Equal(t, "open", g.Filters["status"])
	_, ok := f.Filters["status"]
	assert.False(t, ok)
}
