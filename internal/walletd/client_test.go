package walletd

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calderanet/caldera-cli/internal/testutil"
)

const testEndpoint = "http://127.0.0.1:9000/json_rpc"

// rpcResponder dispatches on the JSON-RPC method field, mimicking the wallet
// daemon's single-endpoint shape.
func rpcResponder(t *testing.T, handlers map[string]func(params json.RawMessage) (interface{}, *RPCError)) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		var rpcReq struct {
			JSONRPC string          `json:"jsonrpc"`
			ID      string          `json:"id"`
			Method  string          `json:"method"`
			Params  json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(req.Body).Decode(&rpcReq); err != nil {
			t.Fatalf("malformed rpc request: %v", err)
		}

		assert.Equal(t, "2.0", rpcReq.JSONRPC)
		assert.NotEmpty(t, rpcReq.ID, "every request needs a unique id")

		handler, ok := handlers[rpcReq.Method]
		if !ok {
			t.Fatalf("unexpected rpc method %q", rpcReq.Method)
		}

		result, rpcErr := handler(rpcReq.Params)
		body := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      rpcReq.ID,
		}
		if rpcErr != nil {
			body["error"] = rpcErr
		} else {
			body["result"] = result
		}
		return httpmock.NewJsonResponse(http.StatusOK, body)
	}
}

func newMockedClient(t *testing.T, handlers map[string]func(params json.RawMessage) (interface{}, *RPCError)) *Client {
	c := NewClient(testutil.NewTestLogger(), testEndpoint)
	httpmock.ActivateNonDefault(c.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder("POST", testEndpoint, rpcResponder(t, handlers))
	return c
}

func TestAuthenticate(t *testing.T) {
	c := newMockedClient(t, map[string]func(params json.RawMessage) (interface{}, *RPCError){
		"auth.request": func(params json.RawMessage) (interface{}, *RPCError) {
			var req authLoginRequest
			require.NoError(t, json.Unmarshal(params, &req))
			assert.Equal(t, []string{"Admin"}, req.Permissions)
			return authLoginResponse{AuthToken: "interim-token"}, nil
		},
		"auth.accept": func(params json.RawMessage) (interface{}, *RPCError) {
			var req authAcceptRequest
			require.NoError(t, json.Unmarshal(params, &req))
			assert.Equal(t, "interim-token", req.AuthToken)
			assert.Equal(t, "caldera-cli", req.Name)
			return authAcceptResponse{PermissionsToken: "perm-token"}, nil
		},
	})

	require.NoError(t, c.Authenticate(context.Background()))
	assert.Equal(t, "perm-token", c.token)
}

func TestBalanceAndFee(t *testing.T) {
	c := newMockedClient(t, map[string]func(params json.RawMessage) (interface{}, *RPCError){
		"accounts.get_balance": func(params json.RawMessage) (interface{}, *RPCError) {
			return balanceResponse{AvailableBalance: 12000}, nil
		},
		"templates.estimate_fee": func(params json.RawMessage) (interface{}, *RPCError) {
			var req publishRequest
			require.NoError(t, json.Unmarshal(params, &req))
			assert.Equal(t, uint64(5), req.FeePerGram)
			return feeEstimateResponse{Fee: 350}, nil
		},
	})

	balance, err := c.Balance(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, uint64(12000), balance)

	fee, err := c.EstimateFee(context.Background(), []byte{0x00, 0x61, 0x73, 0x6d}, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(350), fee)
}

func TestCallSurfacesRPCError(t *testing.T) {
	c := newMockedClient(t, map[string]func(params json.RawMessage) (interface{}, *RPCError){
		"accounts.get_balance": func(params json.RawMessage) (interface{}, *RPCError) {
			return nil, &RPCError{Code: -32001, Message: "account not found"}
		},
	})

	_, err := c.Balance(context.Background(), "ghost")
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32001, rpcErr.Code)
	assert.Contains(t, rpcErr.Error(), "account not found")
}

func TestDeployHappyPath(t *testing.T) {
	polls := 0
	c := newMockedClient(t, map[string]func(params json.RawMessage) (interface{}, *RPCError){
		"templates.estimate_fee": func(params json.RawMessage) (interface{}, *RPCError) {
			return feeEstimateResponse{Fee: 100}, nil
		},
		"accounts.get_balance": func(params json.RawMessage) (interface{}, *RPCError) {
			return balanceResponse{AvailableBalance: 5000}, nil
		},
		"templates.publish": func(params json.RawMessage) (interface{}, *RPCError) {
			return publishResponse{TransactionID: "tx-123"}, nil
		},
		"transactions.get_result": func(params json.RawMessage) (interface{}, *RPCError) {
			polls++
			if polls < 2 {
				return TransactionStatus{Status: StatusPending}, nil
			}
			return TransactionStatus{Status: StatusAccepted, TemplateAddress: "tpl_abc123"}, nil
		},
	})

	d := NewDeployer(testutil.NewTestLogger(), c)
	address, err := d.Deploy(context.Background(), []byte{0x00, 0x61, 0x73, 0x6d, 1, 0, 0, 0}, "", 5)
	require.NoError(t, err)
	assert.Equal(t, "tpl_abc123", address)
	assert.GreaterOrEqual(t, polls, 2)
}

func TestDeployInsufficientBalance(t *testing.T) {
	c := newMockedClient(t, map[string]func(params json.RawMessage) (interface{}, *RPCError){
		"templates.estimate_fee": func(params json.RawMessage) (interface{}, *RPCError) {
			return feeEstimateResponse{Fee: 100000}, nil
		},
		"accounts.get_balance": func(params json.RawMessage) (interface{}, *RPCError) {
			return balanceResponse{AvailableBalance: 10}, nil
		},
	})

	d := NewDeployer(testutil.NewTestLogger(), c)
	_, err := d.Deploy(context.Background(), []byte{0x00, 0x61, 0x73, 0x6d}, "", 5)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestDeployRejectedTransaction(t *testing.T) {
	c := newMockedClient(t, map[string]func(params json.RawMessage) (interface{}, *RPCError){
		"templates.estimate_fee": func(params json.RawMessage) (interface{}, *RPCError) {
			return feeEstimateResponse{Fee: 10}, nil
		},
		"accounts.get_balance": func(params json.RawMessage) (interface{}, *RPCError) {
			return balanceResponse{AvailableBalance: 5000}, nil
		},
		"templates.publish": func(params json.RawMessage) (interface{}, *RPCError) {
			return publishResponse{TransactionID: "tx-bad"}, nil
		},
		"transactions.get_result": func(params json.RawMessage) (interface{}, *RPCError) {
			return TransactionStatus{Status: StatusRejected, FailureReason: "invalid template"}, nil
		},
	})

	d := NewDeployer(testutil.NewTestLogger(), c)
	_, err := d.Deploy(context.Background(), []byte{0x00, 0x61, 0x73, 0x6d}, "", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid template")
}

func TestLoadBinary(t *testing.T) {
	d := NewDeployer(testutil.NewTestLogger(), NewClient(testutil.NewTestLogger(), testEndpoint))

	dir := t.TempDir()
	good := filepath.Join(dir, "good.wasm")
	require.NoError(t, os.WriteFile(good, []byte{0x00, 0x61, 0x73, 0x6d, 1, 0, 0, 0}, 0o600))
	bad := filepath.Join(dir, "bad.wasm")
	require.NoError(t, os.WriteFile(bad, []byte("definitely not wasm"), 0o600))

	binary, err := d.LoadBinary(good)
	require.NoError(t, err)
	assert.Len(t, binary, 8)

	_, err = d.LoadBinary(bad)
	assert.ErrorIs(t, err, ErrInvalidWasm)

	_, err = d.LoadBinary(filepath.Join(dir, "missing.wasm"))
	assert.Error(t, err)
}
