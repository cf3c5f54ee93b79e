package handlers

import (
	"database/sql"
	"testing"

	"github.com/rijeet/Election-sub001/cliparse"
	"github.com/rijeet/Election-sub001/testutil"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return testutil.SetupTestDB(t)
}

func getTestConfig() cliparse.Config {
	return testutil.GetTestConfig()
}
