package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bizdesk/erp/internal/domain/integration"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	assert.Equal(t,
		"sha256=aa9e2e3575f5d7098b6caccd790888c36d5fdb63342a73bada2d6a51747a8494",
		Sign("secret", []byte(`{"a":1}`)))
	assert.Len(t, Sign("secret", []byte("x")), len("sha256=")+64)
	assert.NotEqual(t, Sign("a", []byte("x")), Sign("b", []byte("x")))
}

func TestHTTPSender_Send(t *testing.T) {
	var got *http.Request
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	d := &integration.Delivery{
		ID:    uuid.New(),
		Event: "invoice.created",
		URL:   srv.URL + "/hook",
		Body:  `{"event":"invoice.created"}`,
	}

	code, err := NewHTTPSender(time.Second).Send(context.Background(), d, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, code)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "invoice.created", got.Header.Get(HeaderEvent))
	assert.Equal(t, d.ID.String(), got.Header.Get(HeaderDelivery))
	assert.Equal(t, Sign("s3cret", []byte(d.Body)), got.Header.Get(HeaderSignature))
	assert.Equal(t, d.Body, string(body))
}

func TestHTTPSender_NoSecretNoSignature(t *testing.T) {
	var sig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sig = r.Header.Get(HeaderSignature)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := NewHTTPSender(time.Second).Send(context.Background(), &integration.Delivery{ID: uuid.New(), URL: srv.URL, Body: "{}"}, "")
	require.NoError(t, err)
	assert.Empty(t, sig)
}

func TestHTTPSender_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	code, err := NewHTTPSender(time.Second).Send(context.Background(), &integration.Delivery{ID: uuid.New(), URL: srv.URL, Body: "{}"}, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, code)
}
