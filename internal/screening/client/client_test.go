package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veria/internal/platform/config"
	"veria/internal/screening"
	"veria/pkg/testutil"
)

const lowRisk = `{"risk":"low","score":0,"details":{"sanctions_hit":false}}`

func newTestClient(fake *testutil.FakeVeria, apiKey string) *Client {
	return New(config.Veria{APIKey: apiKey, Endpoint: fake.URL}, WithHTTPClient(fake.Client()))
}

// lastRequest returns the single request the fake received.
func lastRequest(t *testing.T, fake *testutil.FakeVeria) testutil.RecordedRequest {
	t.Helper()
	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	return reqs[0]
}

func TestScreen(t *testing.T) {
	t.Run("sends address unmodified with bearer credential", func(t *testing.T) {
		fake := testutil.NewFakeVeria(t, http.StatusOK, `{"risk":"low","score":3,"details":{"sanctions_hit":false}}`)
		c := newTestClient(fake, "test-key")

		_, err := c.Screen(context.Background(), "0xABC...")
		require.NoError(t, err)

		req := lastRequest(t, fake)
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, `{"input":"0xABC..."}`, req.Body)
		assert.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
	})

	t.Run("does not trim or fold case", func(t *testing.T) {
		fake := testutil.NewFakeVeria(t, http.StatusOK, lowRisk)
		c := newTestClient(fake, "k")

		_, err := c.Screen(context.Background(), " 0x742d35Cc6634C0532925a3b844Bc454e4438f44e ")
		require.NoError(t, err)
		assert.Equal(t, `{"input":" 0x742d35Cc6634C0532925a3b844Bc454e4438f44e "}`, lastRequest(t, fake).Body)
	})

	t.Run("missing api key sends empty bearer", func(t *testing.T) {
		fake := testutil.NewFakeVeria(t, http.StatusOK, lowRisk)
		c := newTestClient(fake, "")

		_, err := c.Screen(context.Background(), "0x1")
		require.NoError(t, err)
		assert.Equal(t, "Bearer ", lastRequest(t, fake).Header.Get("Authorization"))
	})

	t.Run("decodes full result", func(t *testing.T) {
		body := `{
			"score": 92,
			"risk": "critical",
			"chain": "ethereum",
			"resolved": "0x742d35cc6634c0532925a3b844bc454e4438f44e",
			"latency_ms": 41,
			"details": {
				"sanctions_hit": true,
				"pep_hit": false,
				"watchlist_hit": true,
				"checked_lists": ["ofac_sdn", "eu_consolidated"],
				"address_type": "eoa"
			}
		}`
		fake := testutil.NewFakeVeria(t, http.StatusOK, body)
		c := newTestClient(fake, "k")

		result, err := c.Screen(context.Background(), "0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
		require.NoError(t, err)

		assert.Equal(t, screening.RiskCritical, result.Risk)
		assert.Equal(t, 92.0, result.Score)
		assert.Equal(t, "ethereum", result.Chain)
		assert.Equal(t, int64(41), result.LatencyMs)
		assert.True(t, result.Details.SanctionsHit)
		assert.True(t, result.Details.WatchlistHit)
		assert.Equal(t, []string{"ofac_sdn", "eu_consolidated"}, result.Details.CheckedLists)
		assert.Equal(t, "eoa", result.Details.AddressType)
	})

	t.Run("non-2xx returns RequestFailed with status", func(t *testing.T) {
		fake := testutil.NewFakeVeria(t, http.StatusUnauthorized, `{"error":"invalid api key"}`)
		c := newTestClient(fake, "bad")

		result, err := c.Screen(context.Background(), "0x1")
		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrRequestFailed)
		assert.NotErrorIs(t, err, ErrMalformedResponse)

		var rf *RequestFailedError
		require.True(t, errors.As(err, &rf))
		assert.Equal(t, http.StatusUnauthorized, rf.StatusCode)
		assert.Contains(t, rf.Body, "invalid api key")
		assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	})

	t.Run("server error returns RequestFailed", func(t *testing.T) {
		fake := testutil.NewFakeVeria(t, http.StatusBadGateway, ``)
		c := newTestClient(fake, "k")

		_, err := c.Screen(context.Background(), "0x1")
		assert.ErrorIs(t, err, ErrRequestFailed)
		assert.Equal(t, http.StatusBadGateway, StatusCode(err))
	})

	t.Run("missing risk returns MalformedResponse", func(t *testing.T) {
		fake := testutil.NewFakeVeria(t, http.StatusOK, `{"score":10,"details":{"sanctions_hit":false}}`)
		c := newTestClient(fake, "k")

		_, err := c.Screen(context.Background(), "0x1")
		assert.ErrorIs(t, err, ErrMalformedResponse)
		assert.Zero(t, StatusCode(err))
	})

	t.Run("transport failure is not classified", func(t *testing.T) {
		fake := testutil.NewFakeVeria(t, http.StatusOK, lowRisk)
		c := newTestClient(fake, "k")
		fake.Close()

		_, err := c.Screen(context.Background(), "0x1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrRequestFailed)
		assert.NotErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("honours context cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		t.Cleanup(srv.Close)
		c := New(config.Veria{APIKey: "k", Endpoint: srv.URL}, WithHTTPClient(srv.Client()))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := c.Screen(ctx, "0x1")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestParseScreenResponse(t *testing.T) {
	t.Run("rejects invalid JSON", func(t *testing.T) {
		result, err := parseScreenResponse(200, []byte(`{invalid json`))
		assert.ErrorIs(t, err, ErrMalformedResponse)
		assert.Nil(t, result)
	})

	t.Run("rejects empty risk", func(t *testing.T) {
		_, err := parseScreenResponse(200, []byte(`{"risk":"","score":1,"details":{"sanctions_hit":false}}`))
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("rejects non-object details", func(t *testing.T) {
		_, err := parseScreenResponse(200, []byte(`{"risk":"low","score":1,"details":"none"}`))
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("rejects missing or null required fields", func(t *testing.T) {
		tests := []struct {
			name   string
			body   string
			reason string
		}{
			{name: "null risk", body: `{"risk":null,"score":1,"details":{"sanctions_hit":false}}`, reason: "missing risk"},
			{name: "risk only", body: `{"risk":"low"}`, reason: "missing score"},
			{name: "null score", body: `{"risk":"low","score":null,"details":{"sanctions_hit":false}}`, reason: "missing score"},
			{name: "missing details", body: `{"risk":"medium","score":40.5}`, reason: "missing details"},
			{name: "null details", body: `{"risk":"low","score":1,"details":null}`, reason: "missing details"},
			{name: "empty details", body: `{"risk":"low","score":1,"details":{}}`, reason: "missing details.sanctions_hit"},
			{name: "null sanctions_hit", body: `{"risk":"low","score":1,"details":{"sanctions_hit":null}}`, reason: "missing details.sanctions_hit"},
			{name: "null body", body: `null`, reason: "missing risk"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				result, err := parseScreenResponse(200, []byte(tt.body))
				require.ErrorIs(t, err, ErrMalformedResponse)
				assert.Nil(t, result)

				var mr *MalformedResponseError
				require.True(t, errors.As(err, &mr))
				assert.Equal(t, tt.reason, mr.Reason)
			})
		}
	})

	t.Run("rejects a JSON array body", func(t *testing.T) {
		_, err := parseScreenResponse(200, []byte(`[{"risk":"low"}]`))
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("accepts unknown risk levels", func(t *testing.T) {
		result, err := parseScreenResponse(200, []byte(`{"risk":"severe","score":50,"details":{"sanctions_hit":false}}`))
		require.NoError(t, err)
		assert.Equal(t, screening.RiskLevel("severe"), result.Risk)
		assert.False(t, result.Risk.IsValid())
	})

	t.Run("optional members may be absent", func(t *testing.T) {
		result, err := parseScreenResponse(201, []byte(`{"risk":"medium","score":40.5,"details":{"sanctions_hit":false}}`))
		require.NoError(t, err)
		assert.Equal(t, 40.5, result.Score)
		assert.Empty(t, result.Chain)
		assert.Empty(t, result.Details.CheckedLists)
	})

	t.Run("truncates long error bodies", func(t *testing.T) {
		_, err := parseScreenResponse(500, []byte(strings.Repeat("x", 2000)))
		var rf *RequestFailedError
		require.True(t, errors.As(err, &rf))
		assert.Len(t, rf.Body, maxErrorExcerpt)
	})

	t.Run("status boundaries", func(t *testing.T) {
		_, err := parseScreenResponse(199, []byte(lowRisk))
		assert.ErrorIs(t, err, ErrRequestFailed)
		_, err = parseScreenResponse(300, []byte(lowRisk))
		assert.ErrorIs(t, err, ErrRequestFailed)
		_, err = parseScreenResponse(299, []byte(lowRisk))
		assert.NoError(t, err)
	})
}

func TestErrorMessages(t *testing.T) {
	rf := &RequestFailedError{StatusCode: 403}
	assert.Equal(t, "screening request failed: status 403", rf.Error())

	mr := &MalformedResponseError{Reason: "missing risk"}
	assert.Equal(t, "malformed screening response: missing risk", mr.Error())
}
