package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"avicola/internal/dto"
	"avicola/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type senderFake struct {
	enviados []dto.EmailMensaje
	err      error
}

func (s *senderFake) Send(msg dto.EmailMensaje) error {
	if s.err != nil {
		return s.err
	}
	s.enviados = append(s.enviados, msg)
	return nil
}

func payload(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestEmailWorker_Envia(t *testing.T) {
	s := &senderFake{}
	w := NewEmailWorker(s, nil)

	msg := dto.EmailMensaje{To: []string{"admin@avicola.test"}, Subject: "Alertas", Body: "3 facturas vencidas"}
	require.NoError(t, w.Process(context.Background(), payload(t, msg)))
	require.Len(t, s.enviados, 1)
	assert.Equal(t, "Alertas", s.enviados[0].Subject)
}

func TestEmailWorker_DescartaInvalidos(t *testing.T) {
	s := &senderFake{}
	w := NewEmailWorker(s, nil)

	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"to":`)))
	assert.NoError(t, w.Process(context.Background(), payload(t, dto.EmailMensaje{Subject: "sin destino"})))
	assert.Empty(t, s.enviados)
}

func TestEmailWorker_ErrorSeReintenta(t *testing.T) {
	for _, cause := range []error{errors.New("smtp: 421"), infra.ErrCircuitOpen} {
		w := NewEmailWorker(&senderFake{err: cause}, nil)
		err := w.Process(context.Background(), payload(t, dto.EmailMensaje{To: []string{"x@y.z"}}))
		assert.ErrorIs(t, err, cause)
	}
}

func TestRetryBackoff(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 30 * time.Second},
		{1, 30 * time.Second},
		{2, time.Minute},
		{3, 2 * time.Minute},
		{6, 16 * time.Minute},
		{7, 30 * time.Minute},
		{20, 30 * time.Minute},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RetryBackoff(tc.attempt), "attempt %d", tc.attempt)
	}
}

type notificadorFake struct {
	llamadas int
	err      error
}

func (n *notificadorFake) Notificar(context.Context) (*dto.NotificarAlertasResponse, error) {
	n.llamadas++
	if n.err != nil {
		return nil, n.err
	}
	return &dto.NotificarAlertasResponse{Notificaciones: 2, EmailEncolado: true}, nil
}

func TestRunAlertas(t *testing.T) {
	n := &notificadorFake{}
	RunAlertas(context.Background(), n)
	assert.Equal(t, 1, n.llamadas)

	n.err = errors.New("db caída")
	assert.NotPanics(t, func() { RunAlertas(context.Background(), n) })
	assert.Equal(t, 2, n.llamadas)
}

func TestStartAlertasTicker_Periodico(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n := &contadorAtomico{ch: make(chan struct{}, 4)}

	StartAlertasTicker(ctx, n, 10*time.Millisecond)
	for i := 0; i < 2; i++ {
		select {
		case <-n.ch:
		case <-time.After(2 * time.Second):
			t.Fatal("el ticker no evaluó alertas")
		}
	}
}

type contadorAtomico struct{ ch chan struct{} }

func (c *contadorAtomico) Notificar(context.Context) (*dto.NotificarAlertasResponse, error) {
	select {
	case c.ch <- struct{}{}:
	default:
	}
	return &dto.NotificarAlertasResponse{}, nil
}
