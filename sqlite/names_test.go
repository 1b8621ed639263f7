package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeTableName(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "plain", input: "outbox_operations"},
		{name: "mixed case", input: "OutboxOps"},
		{name: "digits after first", input: "cache_v2"},
		{name: "empty", input: "", wantErr: ErrTableNameRequired},
		{name: "leading digit", input: "2cache", wantErr: ErrInvalidTableName},
		{name: "spaces", input: "outbox ops", wantErr: ErrInvalidTableName},
		{name: "injection", input: "x; DROP TABLE y", wantErr: ErrInvalidTableName},
		{name: "quotes", input: `x"y`, wantErr: ErrInvalidTableName},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := sanitizeTableName(tc.input)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.input, got)
		})
	}
}

func TestSchemaRejectsBadNames(t *testing.T) {
	_, err := Schema("bad name")
	require.ErrorIs(t, err, ErrInvalidTableName)

	_, err = CacheSchema("")
	require.ErrorIs(t, err, ErrTableNameRequired)
}

func TestSchemaContainsTable(t *testing.T) {
	ddl, err := Schema("outbox_operations")
	require.NoError(t, err)
	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS outbox_operations")
	assert.Contains(t, ddl, "idx_outbox_operations_created_at")

	ddl, err = CacheSchema("cache_messages")
	require.NoError(t, err)
	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS cache_messages")
}
