package redshift

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlkit/pkg/adapter"
)

func TestBuildRedshiftDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "defaults",
			config: adapter.Config{
				Host:     "cluster.abc.us-east-1.redshift.amazonaws.com",
				Database: "dev",
			},
			expected: "host=cluster.abc.us-east-1.redshift.amazonaws.com port=5439 dbname=dev sslmode=require",
		},
		{
			name: "credentials and options",
			config: adapter.Config{
				Host:     "localhost",
				Port:     5440,
				Database: "analytics",
				Username: "etl",
				Password: "it's secret",
				Options:  map[string]string{"sslmode": "disable", "connect_timeout": "10"},
			},
			expected: `host=localhost port=5440 dbname=analytics user=etl password='it\'s secret' connect_timeout=10 sslmode=disable`,
		},
		{
			name:     "empty host is quoted",
			config:   adapter.Config{Database: "dev"},
			expected: "host='' port=5439 dbname=dev sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := buildRedshiftDSN(tt.config)
			assert.Equal(t, tt.expected, dsn)

			_, err := pq.NewConnector(dsn)
			assert.NoError(t, err)
		})
	}
}

func TestAdapter(t *testing.T) {
	adp := New(nil)
	assert.Equal(t, "redshift", adp.Dialect())
	assert.Nil(t, adp.DB())

	_, err := adp.GetTableMetadata(context.Background(), "analytics.events")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)

	factory, ok := adapter.Get("redshift")
	require.True(t, ok)
	_, ok = factory(nil).(*Adapter)
	assert.True(t, ok)

	var _ adapter.Adapter = (*Adapter)(nil)
}
