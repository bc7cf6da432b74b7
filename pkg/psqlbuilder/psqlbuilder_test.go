package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id", "status").
		From("payment_intents").
		Where(squirrel.Eq{"id": "pi_1"}).
		Where(squirrel.Eq{"status": []string{"requires_payment_method", "requires_confirmation"}}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id, status FROM payment_intents WHERE id = $1 AND status IN ($2,$3)", query)
	assert.Equal(t, []interface{}{"pi_1", "requires_payment_method", "requires_confirmation"}, args)
}

func TestUpdate_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Update("bookings").
		Set("status", "paused").
		Where(squirrel.Eq{"id": int64(7)}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE bookings SET status = $1 WHERE id = $2", query)
	assert.Equal(t, []interface{}{"paused", int64(7)}, args)
}
