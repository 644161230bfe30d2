package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchFirstRuleWins(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store)
	seedRule(t, store, client.ID, "horario", "Funcionamos das 9h às 18h.", true)
	seedRule(t, store, client.ID, "entrega", "Entregamos em até 3 dias úteis.", true)

	matcher := NewMatcherService(store)

	result, err := matcher.Match(client.ID, "qual o horario de funcionamento?")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, "Funcionamos das 9h às 18h.", result.Reply)
}

func TestMatchCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store)
	seedRule(t, store, client.ID, "horario", "Funcionamos das 9h às 18h.", true)

	matcher := NewMatcherService(store)

	for _, message := range []string{"Horario?", "qual o HORARIO", "hoRaRio de hoje"} {
		result, err := matcher.Match(client.ID, message)
		require.NoError(t, err)
		assert.True(t, result.Matched, "message %q should match", message)
	}
}

func TestMatchSkipsInactiveRules(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store)
	seedRule(t, store, client.ID, "horario", "resposta antiga", false)
	seedRule(t, store, client.ID, "horario", "resposta atual", true)

	matcher := NewMatcherService(store)

	result, err := matcher.Match(client.ID, "horario de atendimento")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, "resposta atual", result.Reply)
}

func TestMatchNoRules(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store)

	matcher := NewMatcherService(store)

	result, err := matcher.Match(client.ID, "qualquer coisa")
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Empty(t, result.Reply)
}

func TestMatchIgnoresOtherClientsRules(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store)
	other := seedClient(t, store)
	seedRule(t, store, other.ID, "horario", "resposta de outro cliente", true)

	matcher := NewMatcherService(store)

	result, err := matcher.Match(client.ID, "horario")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}
