package walletd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"

	"github.com/calderanet/caldera-cli/internal/constants"
)

// wasmMagic is the leading bytes of every WebAssembly binary ("\0asm").
var wasmMagic = []byte{0x00, 0x61, 0x73, 0x6d}

var (
	ErrInsufficientBalance = errors.New("wallet balance is not enough to cover the deployment fee")
	ErrInvalidWasm         = errors.New("file is not a valid WASM binary")
)

const (
	resultPollAttempts = 30
	resultPollDelay    = 2 * time.Second
)

// Deployer drives a full template deployment through the wallet daemon:
// validate, estimate, balance-check, publish, wait for the result.
type Deployer struct {
	log    *zerolog.Logger
	client *Client
}

// NewDeployer creates a Deployer on top of an authenticated Client.
func NewDeployer(log *zerolog.Logger, client *Client) *Deployer {
	return &Deployer{
		log:    log,
		client: client,
	}
}

// LoadBinary reads and validates the built WASM artifact.
func (d *Deployer) LoadBinary(path string) ([]byte, error) {
	binary, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read WASM binary: %w", err)
	}

	if len(binary) > constants.MaxWasmBinarySize {
		return nil, fmt.Errorf("WASM binary exceeds the %d byte limit", constants.MaxWasmBinarySize)
	}

	if len(binary) < len(wasmMagic) || !bytes.Equal(binary[:len(wasmMagic)], wasmMagic) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWasm, path)
	}

	return binary, nil
}

// RegistrationFee returns what deploying the binary will cost, so callers can
// ask for confirmation before spending anything.
func (d *Deployer) RegistrationFee(ctx context.Context, binary []byte, feePerGram uint64) (uint64, error) {
	return d.client.EstimateFee(ctx, binary, feePerGram)
}

// Deploy publishes the binary and blocks until the network accepts or
// rejects it, returning the new template address.
func (d *Deployer) Deploy(ctx context.Context, binary []byte, account string, feePerGram uint64) (string, error) {
	fee, err := d.client.EstimateFee(ctx, binary, feePerGram)
	if err != nil {
		return "", fmt.Errorf("fee estimation failed: %w", err)
	}

	balance, err := d.client.Balance(ctx, account)
	if err != nil {
		return "", fmt.Errorf("balance check failed: %w", err)
	}

	if balance < fee {
		return "", fmt.Errorf("%w: balance %d, fee %d", ErrInsufficientBalance, balance, fee)
	}

	txID, err := d.client.PublishTemplate(ctx, binary, feePerGram)
	if err != nil {
		return "", fmt.Errorf("publish failed: %w", err)
	}

	d.log.Debug().Str("tx_id", txID).Msg("Template publish transaction submitted")
	return d.waitForResult(ctx, txID)
}

// waitForResult polls the daemon until the transaction reaches a terminal
// state. Pending states are retried with a fixed delay.
func (d *Deployer) waitForResult(ctx context.Context, txID string) (string, error) {
	var address string

	err := retry.Do(
		func() error {
			status, err := d.client.TransactionResult(ctx, txID)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			switch status.Status {
			case StatusAccepted:
				address = status.TemplateAddress
				return nil
			case StatusRejected:
				return retry.Unrecoverable(fmt.Errorf("deployment rejected: %s", status.FailureReason))
			default:
				return fmt.Errorf("transaction %s still %s", txID, status.Status)
			}
		},
		retry.Context(ctx),
		retry.Attempts(resultPollAttempts),
		retry.Delay(resultPollDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}

	return address, nil
}
