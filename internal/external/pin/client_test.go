//go:build !integration

package pin

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"PinGateway/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTransport fails every request and counts how many were attempted.
type countingTransport struct {
	calls int
}

func (t *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.calls++
	return nil, errors.New("unexpected network call")
}

func testClient(server *httptest.Server) *Client {
	return New(Config{
		SecretKey:    "sk_test_123",
		TestMode:     true,
		TestEndpoint: server.URL,
	}, server.Client())
}

func TestClient_Endpoint(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "test mode", cfg: Config{TestMode: true}, want: "https://test-api.pin.net.au/1"},
		{name: "live mode", cfg: Config{TestMode: false}, want: "https://api.pin.net.au/1"},
		{name: "trailing slash trimmed", cfg: Config{TestMode: true, TestEndpoint: "https://sandbox.example/"}, want: "https://sandbox.example/1"},
		{name: "custom live", cfg: Config{LiveEndpoint: "https://live.example"}, want: "https://live.example/1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, New(tc.cfg, nil).Endpoint())
		})
	}
}

func TestClient_Send(t *testing.T) {
	t.Run("signs request with basic auth and posts form body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/1/charges", r.URL.Path)
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			assert.Equal(t, "Basic c2tfdGVzdF8xMjM6", r.Header.Get("Authorization"))

			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "sk_test_123", user)
			assert.Empty(t, pass)

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "400", r.PostForm.Get("amount"))

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"response":{"token":"ch_1"}}`))
		}))
		defer server.Close()

		raw, err := testClient(server).Send(context.Background(), "/charges", url.Values{"amount": {"400"}}, "")

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, raw.StatusCode)
		assert.JSONEq(t, `{"response":{"token":"ch_1"}}`, string(raw.Body))
	})

	t.Run("uses live endpoint when test mode is off", func(t *testing.T) {
		var hit bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hit = true
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := New(Config{SecretKey: "sk_live", LiveEndpoint: server.URL, TestEndpoint: "http://127.0.0.1:1"}, server.Client())
		_, err := client.Send(context.Background(), "/charges", nil, http.MethodPost)

		require.NoError(t, err)
		assert.True(t, hit)
	})

	t.Run("returns 404 as a normal response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"resource_not_found","error_description":"No resource was found at this URL."}`))
		}))
		defer server.Close()

		raw, err := testClient(server).Send(context.Background(), "/charges/ch_missing/capture", url.Values{"amount": {"1"}}, http.MethodPut)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, raw.StatusCode)
		assert.True(t, raw.IsClientError())
	})

	t.Run("returns 422 as a normal response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer server.Close()

		raw, err := testClient(server).Send(context.Background(), "/charges", nil, http.MethodPost)

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, raw.StatusCode)
	})

	t.Run("5xx is a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("maintenance"))
		}))
		defer server.Close()

		raw, err := testClient(server).Send(context.Background(), "/charges", nil, http.MethodPost)

		assert.Nil(t, raw)
		require.ErrorIs(t, err, ErrTransport)
		var terr *TransportError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, http.StatusServiceUnavailable, terr.StatusCode)
		assert.Equal(t, "maintenance", string(terr.Body))
	})

	t.Run("context deadline propagates as transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		raw, err := testClient(server).Send(ctx, "/charges", nil, http.MethodPost)

		assert.Nil(t, raw)
		assert.ErrorIs(t, err, ErrTransport)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("client timeout propagates as transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer server.Close()

		client := New(Config{TestMode: true, TestEndpoint: server.URL}, &http.Client{Timeout: 50 * time.Millisecond})
		_, err := client.Send(context.Background(), "/charges", nil, http.MethodPost)

		require.ErrorIs(t, err, ErrTransport)
		var netErr net.Error
		require.ErrorAs(t, err, &netErr)
		assert.True(t, netErr.Timeout())
	})

	t.Run("connection refused propagates as transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		client := testClient(server)
		server.Close()

		_, err := client.Send(context.Background(), "/charges", nil, http.MethodPost)

		assert.ErrorIs(t, err, ErrTransport)
	})

	t.Run("rejects unsupported methods before sending", func(t *testing.T) {
		transport := &countingTransport{}
		client := New(Config{}, &http.Client{Transport: transport})

		_, err := client.Send(context.Background(), "/charges", nil, http.MethodDelete)

		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, 0, transport.calls)
	})
}

func TestClient_Capture(t *testing.T) {
	t.Run("puts amount to the capture path", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/1/charges/tok_abc/capture", r.URL.Path)

			require.NoError(t, r.ParseForm())
			assert.Equal(t, url.Values{"amount": {"500"}}, r.PostForm)
			assert.NotContains(t, r.PostForm, "token")

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"response":{"token":"tok_abc","success":true,"amount":500,"status_message":"Success","captured":true}}`))
		}))
		defer server.Close()

		resp, err := testClient(server).Capture(context.Background(), TransactionContext{Token: "tok_abc", Amount: 500})

		require.NoError(t, err)
		assert.True(t, resp.IsSuccessful())
		assert.Equal(t, "tok_abc", resp.TransactionReference())
		assert.Equal(t, "Success", resp.Message())
		assert.True(t, resp.Charge.Captured)
	})

	t.Run("client error becomes a failed response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_resource","error_description":"One or more parameters were missing or invalid.","messages":[{"param":"amount","code":"amount_invalid","message":"Amount must be more than 0"}]}`))
		}))
		defer server.Close()

		resp, err := testClient(server).Capture(context.Background(), TransactionContext{Token: "ch_x", Amount: 1})

		require.NoError(t, err)
		assert.False(t, resp.IsSuccessful())
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid_resource", resp.Code())
		assert.Equal(t, "One or more parameters were missing or invalid.", resp.Message())
		require.Len(t, resp.Messages, 1)
		assert.Equal(t, "amount", resp.Messages[0].Param)
	})

	t.Run("missing amount never reaches the network", func(t *testing.T) {
		transport := &countingTransport{}
		client := New(Config{SecretKey: "sk"}, &http.Client{Transport: transport})

		resp, err := client.Capture(context.Background(), TransactionContext{Token: "tok_abc"})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, 0, transport.calls)
	})

	t.Run("missing token never reaches the network", func(t *testing.T) {
		transport := &countingTransport{}
		client := New(Config{SecretKey: "sk"}, &http.Client{Transport: transport})

		_, err := client.Capture(context.Background(), TransactionContext{Amount: 500})

		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, 0, transport.calls)
	})
}

func TestClient_PurchaseAndAuthorize(t *testing.T) {
	var lastForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/1/charges", r.URL.Path)
		require.NoError(t, r.ParseForm())
		lastForm = r.PostForm

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"response":{"token":"ch_new","success":true,"status_message":"Success","card":{"token":"card_saved"}}}`))
	}))
	defer server.Close()
	client := testClient(server)

	t.Run("purchase sends raw card", func(t *testing.T) {
		resp, err := client.Purchase(context.Background(), TransactionContext{
			Amount:   1000,
			Currency: "AUD",
			ClientIP: "203.0.113.9",
			Card:     validCard(),
		})

		require.NoError(t, err)
		assert.Equal(t, "ch_new", resp.TransactionReference())
		assert.Equal(t, "card_saved", resp.CardReference())
		assert.Equal(t, "4200000000000000", lastForm.Get("card[number]"))
		assert.Equal(t, "aud", lastForm.Get("currency"))
		assert.NotContains(t, lastForm, "capture")
	})

	t.Run("authorize defers capture", func(t *testing.T) {
		_, err := client.Authorize(context.Background(), TransactionContext{
			Amount: 1000,
			Card:   &CardDetails{Email: "roland@pin.net.au"},
			Token:  "cus_123",
		})

		require.NoError(t, err)
		assert.Equal(t, "false", lastForm.Get("capture"))
		assert.Equal(t, "cus_123", lastForm.Get("customer_token"))
	})
}

func TestClient_Refund(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/1/charges/ch_abc/refunds", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, url.Values{"amount": {"250"}}, r.PostForm)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"response":{"token":"rf_1","success":null,"amount":250,"status_message":"Pending"}}`))
	}))
	defer server.Close()

	resp, err := testClient(server).Refund(context.Background(), TransactionContext{Token: "ch_abc", Amount: 250})

	require.NoError(t, err)
	assert.True(t, resp.IsSuccessful())
	assert.Equal(t, "rf_1", resp.TransactionReference())
	assert.Equal(t, "Pending", resp.Message())
}

func TestRouteTemplate(t *testing.T) {
	assert.Equal(t, "/charges", routeTemplate("/charges"))
	assert.Equal(t, "/charges/:token/capture", routeTemplate("/charges/ch_lfUYEBK14zotCTykezJkfg/capture"))
	assert.Equal(t, "/charges/:token/refunds", routeTemplate("/charges/ch_1/refunds"))
}

func TestClient_Send_RecordsGatewayMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	counter := metrics.GatewayRequestsTotal.WithLabelValues("/charges/:token/capture", http.MethodPut, "4xx")
	before := testutil.ToFloat64(counter)

	_, err := testClient(server).Capture(context.Background(), TransactionContext{Token: "ch_metrics", Amount: 500})

	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
