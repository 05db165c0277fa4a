package integration

import (
	"testing"

	"github.com/dimitrije/teamup-api/tests/testutil"
)

// setupTest starts a migrated database, skipping under -short
func setupTest(t *testing.T) *testutil.TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	return testutil.SetupTestDB(t)
}
