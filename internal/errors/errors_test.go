package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("Local não encontrado.")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("Data inválida.")))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(Forbidden("Sem permissão.")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("Horário já reservado.")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Unauthorized("Token inválido.")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestWrappedAppErrorKeepsKind(t *testing.T) {
	err := fmt.Errorf("create reservation: %w", Conflict("Horário já reservado."))
	assert.True(t, Is(err, KindConflict))
	assert.Equal(t, "Horário já reservado.", PublicMessage(err))
}

func TestInternalHidesCause(t *testing.T) {
	err := Internal(errors.New("pq: relation does not exist"))
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "Erro interno do servidor.", PublicMessage(err))
	assert.Equal(t, "Erro interno do servidor.", PublicMessage(errors.New("raw")))
}

func TestForbiddenUnwrapsSentinel(t *testing.T) {
	assert.ErrorIs(t, Forbidden("x"), ErrForbidden)
	assert.ErrorIs(t, Unauthorized("x"), ErrUnauthorized)
}
