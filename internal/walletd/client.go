package walletd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestTimeout = 30 * time.Second

// Client is a JSON-RPC 2.0 client for the wallet daemon. Deployment-side
// collaborator: it estimates fees, checks balances and submits template
// publish transactions; the daemon does the actual signing and broadcasting.
type Client struct {
	log        *zerolog.Logger
	httpClient *http.Client
	endpoint   string
	token      string
}

// NewClient creates a client for the wallet daemon JSON-RPC endpoint.
func NewClient(log *zerolog.Logger, endpoint string) *Client {
	return &Client{
		log:      log,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// RPCError is a JSON-RPC error object returned by the daemon.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("wallet daemon error %d: %s", e.Code, e.Message)
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug().Str("method", method).Str("endpoint", c.endpoint).Msg("Calling wallet daemon")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wallet daemon unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wallet daemon returned status %s for %s", resp.Status, method)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}

	return nil
}

// Authenticate performs the daemon's two-step token handshake and stores the
// permissions token for subsequent calls.
func (c *Client) Authenticate(ctx context.Context) error {
	var login authLoginResponse
	err := c.call(ctx, "auth.request", authLoginRequest{Permissions: []string{"Admin"}}, &login)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}

	var accept authAcceptResponse
	err = c.call(ctx, "auth.accept", authAcceptRequest{AuthToken: login.AuthToken, Name: "caldera-cli"}, &accept)
	if err != nil {
		return fmt.Errorf("auth accept failed: %w", err)
	}

	c.token = accept.PermissionsToken
	return nil
}

// Balance returns the available balance of the given account in micro units.
// An empty account name means the daemon's default account.
func (c *Client) Balance(ctx context.Context, account string) (uint64, error) {
	var resp balanceResponse
	if err := c.call(ctx, "accounts.get_balance", balanceRequest{Account: account}, &resp); err != nil {
		return 0, err
	}
	return resp.AvailableBalance, nil
}

// EstimateFee asks the daemon what publishing the given binary would cost.
func (c *Client) EstimateFee(ctx context.Context, binary []byte, feePerGram uint64) (uint64, error) {
	var resp feeEstimateResponse
	err := c.call(ctx, "templates.estimate_fee", publishRequest{TemplateBinary: binary, FeePerGram: feePerGram}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Fee, nil
}

// PublishTemplate submits the binary for deployment and returns the
// transaction id to poll.
func (c *Client) PublishTemplate(ctx context.Context, binary []byte, feePerGram uint64) (string, error) {
	var resp publishResponse
	err := c.call(ctx, "templates.publish", publishRequest{TemplateBinary: binary, FeePerGram: feePerGram}, &resp)
	if err != nil {
		return "", err
	}
	return resp.TransactionID, nil
}

// TransactionResult fetches the current state of a publish transaction.
func (c *Client) TransactionResult(ctx context.Context, txID string) (*TransactionStatus, error) {
	var resp TransactionStatus
	if err := c.call(ctx, "transactions.get_result", transactionResultRequest{TransactionID: txID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
