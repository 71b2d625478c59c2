package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsConnectivityError(t *testing.T) {
	tests := []struct {
		err          error
		connectivity bool
	}{
		{nil, false},
		{errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), true},
		{errors.New("read: connection reset by peer"), true},
		{errors.New("dial tcp: lookup db.internal: no such host"), true},
		{errors.New("Tenant or user not found"), true},
		{errors.New(`pq: syntax error at or near "SELCT"`), false},
		{errors.New("sql: no rows in result set"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.connectivity, IsConnectivityError(tt.err), "%v", tt.err)
	}
}
