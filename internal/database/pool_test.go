package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "uq_agendamento_slot_ativo"})
	assert.True(t, IsUniqueViolation(err))
	assert.Equal(t, "uq_agendamento_slot_ativo", ConstraintName(err))

	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("23505")))
	assert.Empty(t, ConstraintName(errors.New("x")))
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "futspot", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=futspot sslmode=disable", cfg.DSN())
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_init.up.sql")
	assert.Contains(t, names, "000002_mensalidades.up.sql")
	assert.Contains(t, names, "000002_mensalidades.down.sql")
}
