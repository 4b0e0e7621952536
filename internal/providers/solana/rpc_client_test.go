package solana_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graveshift/graveshift/internal/domain"
	"github.com/graveshift/graveshift/internal/providers/solana"
)

func rpcServer(t *testing.T, handler func(method string, params []interface{}) string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			JSONRPC string        `json:"jsonrpc"`
			ID      uint64        `json:"id"`
			Method  string        `json:"method"`
			Params  []interface{} `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "2.0", req.JSONRPC)

		result := handler(req.Method, req.Params)
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + "1" + `,"result":` + result + `}`))
	}))
}

func TestGetAccountInfo(t *testing.T) {
	server := rpcServer(t, func(method string, params []interface{}) string {
		assert.Equal(t, "getAccountInfo", method)
		require.Len(t, params, 2)
		assert.Equal(t, "9B5XszUGdMaxCZ7uSQhPzdks5ZQSmWxrmzCSvtJ6Ns6g", params[0])

		return `{
			"context": {"slot": 100},
			"value": {
				"lamports": 1461600,
				"owner": "6hJAy23ndpQii5QzVmXTjGjgmDPhhPEQNvrd5o9S8JWF",
				"data": ["aGVsbG8=", "base64"],
				"executable": false,
				"rentEpoch": 361
			}
		}`
	})
	defer server.Close()

	client := solana.NewHTTPClient(server.URL)

	info, err := client.GetAccountInfo(context.Background(), "9B5XszUGdMaxCZ7uSQhPzdks5ZQSmWxrmzCSvtJ6Ns6g")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, uint64(1461600), info.Lamports)
	assert.Equal(t, "6hJAy23ndpQii5QzVmXTjGjgmDPhhPEQNvrd5o9S8JWF", info.Owner)
	assert.Equal(t, "aGVsbG8=", info.Data)
	assert.False(t, info.Executable)
}

func TestGetAccountInfo_AbsentAccount(t *testing.T) {
	server := rpcServer(t, func(method string, params []interface{}) string {
		return `{"context": {"slot": 100}, "value": null}`
	})
	defer server.Close()

	client := solana.NewHTTPClient(server.URL)

	info, err := client.GetAccountInfo(context.Background(), "9B5XszUGdMaxCZ7uSQhPzdks5ZQSmWxrmzCSvtJ6Ns6g")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestGetLatestBlockhash(t *testing.T) {
	server := rpcServer(t, func(method string, params []interface{}) string {
		assert.Equal(t, "getLatestBlockhash", method)

		return `{
			"context": {"slot": 100},
			"value": {
				"blockhash": "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N",
				"lastValidBlockHeight": 3090
			}
		}`
	})
	defer server.Close()

	client := solana.NewHTTPClient(server.URL)

	blockhash, err := client.GetLatestBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N", blockhash.Blockhash)
	assert.Equal(t, uint64(3090), blockhash.LastValidBlockHeight)
}

func TestCall_RPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"Invalid param"}}`))
	}))
	defer server.Close()

	client := solana.NewHTTPClient(server.URL)

	_, err := client.GetLatestBlockhash(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RPC error -32602")
}

func TestCall_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := solana.NewHTTPClient(server.URL)

	_, err := client.GetAccountInfo(context.Background(), "9B5XszUGdMaxCZ7uSQhPzdks5ZQSmWxrmzCSvtJ6Ns6g")
	require.Error(t, err)

	var unavailableErr *domain.SourceUnavailableError
	require.ErrorAs(t, err, &unavailableErr)
	assert.Equal(t, "solana-rpc", unavailableErr.Source)
	assert.Equal(t, http.StatusBadGateway, unavailableErr.Status)
}
