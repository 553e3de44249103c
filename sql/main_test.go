package sql

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/siherrmann/notegraph/helper"
	"github.com/stretchr/testify/require"
)

var dbPort string

func TestMain(m *testing.M) {
	teardown, port, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("failed to start postgres container: %v", err)
	}
	dbPort = port

	code := m.Run()

	if err := teardown(context.Background()); err != nil {
		log.Printf("failed to tear down postgres container: %v", err)
	}
	os.Exit(code)
}

func initDB(t *testing.T) *helper.Database {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")
	database := helper.NewTestDatabase(dbConfig)

	err = Init(database.Instance)
	require.NoError(t, err)

	return database
}
