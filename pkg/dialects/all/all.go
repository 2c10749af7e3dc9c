// Package all registers every built-in dialect.
package all

import (
	_ "github.com/leapstack-labs/sqlkit/pkg/dialects/athena"
	_ "github.com/leapstack-labs/sqlkit/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/sqlkit/pkg/dialects/oracle"
	_ "github.com/leapstack-labs/sqlkit/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/sqlkit/pkg/dialects/redshift"
	_ "github.com/leapstack-labs/sqlkit/pkg/dialects/sqlite"
)
