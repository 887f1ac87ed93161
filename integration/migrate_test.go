//go:build integration

package integration_test

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gopkg.in/yaml.v3"

	"github.com/gordonnow/session-issuer/internal/config"
	"github.com/gordonnow/session-issuer/internal/dbtest/postgrestest"
)

func TestMigrate(t *testing.T) {
	const cmdName = "migrate"
	const configFilePath = "./" + cmdName + "-test/config.yaml"

	ctx := t.Context()
	testdir := filepath.Dir(configFilePath)

	// This test doesn't utilise infraStat like the others because it needs an empty DB
	pgContainer, err := postgres.Run(
		ctx,
		"postgres:17-alpine",
		postgres.WithDatabase(postgrestest.DBName),
		postgres.WithUsername(postgrestest.DBUser),
		postgres.WithPassword(postgrestest.DBPassword),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "failed to start PostgreSQL")
	defer func() {
		_ = pgContainer.Terminate(ctx)
	}()

	port, err := pgContainer.MappedPort(ctx, nat.Port("5432"))
	require.NoError(t, err, "failed to get mapped port for the PostgreSQL container")

	// Prepare config
	require.NoError(t, os.MkdirAll(testdir, fs.ModePerm))
	defer os.RemoveAll(testdir)

	require.NoError(t, os.WriteFile(configFilePath, []byte(validConfig), fs.ModePerm), "failed to write config file")

	var cfg config.Config
	require.NoError(t, commoncfg.LoadConfig(&cfg, nil, testdir), "failed to load config")

	currdir, err := os.Getwd()
	require.NoError(t, err, "failed to get wd")

	cfg.Database.Name = postgrestest.DBName
	cfg.Database.User = commoncfg.SourceRef{Source: "embedded", Value: postgrestest.DBUser}
	cfg.Database.Password = commoncfg.SourceRef{Source: "embedded", Value: postgrestest.DBPassword}
	cfg.Database.Host = commoncfg.SourceRef{Source: "embedded", Value: postgrestest.DBHost}
	cfg.Database.Port = port.Port()
	cfg.Database.SSLMode = postgrestest.DBSSLMode

	f, err := os.Create(configFilePath)
	require.NoError(t, err, "failed to create config file")
	defer f.Close()

	require.NoError(t, yaml.NewEncoder(f).Encode(cfg), "failed to write config")

	t.Chdir(testdir)

	// Run the migrations
	cmd := exec.CommandContext(ctx, filepath.Join(currdir, binaryName), cmdName, "--graceful-shutdown", "0s")

	cmdOutPath := filepath.Join(currdir, cmdName+".log")
	cmdOut, err := os.Create(cmdOutPath)
	require.NoError(t, err, "failed to create an log file")
	defer cmdOut.Close()

	cmd.Stdout = cmdOut
	cmd.Stderr = cmdOut
	t.Logf("starting an app process. Logs will be saved into %s", cmdOutPath)
	require.NoError(t, cmd.Run(), "process exited abnormally")

	// The users table must exist and be empty
	conn, err := pgx.Connect(ctx, postgrestest.ConnStr(port))
	require.NoError(t, err)
	defer conn.Close(ctx)

	var count int
	require.NoError(t, conn.QueryRow(ctx, `SELECT count(*) FROM users;`).Scan(&count))
	assert.Zero(t, count)
}
