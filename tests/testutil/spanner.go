package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/sale-notifier/internal/models/m_contact"
	"github.com/light-bringer/sale-notifier/internal/models/m_sale"
	"github.com/light-bringer/sale-notifier/internal/models/m_sale_item"
	"github.com/light-bringer/sale-notifier/internal/pkg/committer"
)

const defaultTestSpannerDB = "projects/test-project/instances/test-instance/databases/sale-notifier-test"

// SetupSpannerTest creates a test Spanner client and returns a cleanup function.
// Tests are skipped when no emulator is configured.
func SetupSpannerTest(t *testing.T) (*spanner.Client, func()) {
	t.Helper()

	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		t.Skip("SPANNER_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := spanner.NewClient(ctx, GetTestSpannerDB())
	require.NoError(t, err, "failed to create Spanner client")

	CleanDatabase(t, client)

	cleanup := func() {
		CleanDatabase(t, client)
		client.Close()
	}

	return client, cleanup
}

// GetTestSpannerDB returns the test database path, overridable with SPANNER_TEST_DATABASE.
func GetTestSpannerDB() string {
	if db := os.Getenv("SPANNER_TEST_DATABASE"); db != "" {
		return db
	}
	return defaultTestSpannerDB
}

// CleanDatabase removes every row for test isolation. Children go first.
func CleanDatabase(t *testing.T, client *spanner.Client) {
	t.Helper()

	plan := committer.NewPlan().Add(
		spanner.Delete(m_sale_item.TableName, spanner.AllKeys()),
		spanner.Delete(m_sale.TableName, spanner.AllKeys()),
		spanner.Delete(m_contact.TableName, spanner.AllKeys()),
	)

	err := committer.NewCommitter(client).Apply(context.Background(), plan)
	require.NoError(t, err, "failed to clean database")
}

// AssertRowCount asserts the number of rows in a table.
func AssertRowCount(t *testing.T, client *spanner.Client, table string, expectedCount int) {
	t.Helper()

	ctx := context.Background()
	stmt := spanner.Statement{
		SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	}

	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "failed to query row count")

	var count int64
	err = row.Columns(&count)
	require.NoError(t, err, "failed to parse count")

	require.Equal(t, int64(expectedCount), count, "unexpected row count in table %s", table)
}
