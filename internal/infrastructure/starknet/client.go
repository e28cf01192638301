package starknet

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync/atomic"
	"time"

	"bridge_checker/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var balanceOfSelector = Selector("balance_of")

// withdrawEntryPoint is the bridge contract entry point every operation
// targets. Calldata order: structure id, destination address, token address,
// amount, client fee recipient.
const withdrawEntryPoint = "withdraw"

// Client is a JSON-RPC client for the chain endpoint. Reads go through
// starknet_call; fee estimation and submission go through the session
// account's execute surface, which signs on our behalf and returns the
// transaction hash. Implements port.ChainReader and port.TransactionSubmitter.
type Client struct {
	client         *fasthttp.Client
	rpcURL         string
	bridgeContract string
	timeout        time.Duration
	limiter        *rate.Limiter
	logger         *zap.Logger
	requestID      atomic.Int64
}

// NewClient creates a new chain client.
func NewClient(rpcURL, bridgeContract string, timeout time.Duration, limiter *rate.Limiter, logger *zap.Logger) *Client {
	return &Client{
		client:         &fasthttp.Client{},
		rpcURL:         strings.TrimRight(rpcURL, "/"),
		bridgeContract: bridgeContract,
		timeout:        timeout,
		limiter:        limiter,
		logger:         logger.Named("StarknetClient"),
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int64  `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result jsoniter.RawMessage `json:"result"`
	Error  *rpcError           `json:"error"`
}

// call is an invocation payload in the starknet.js Call shape; the account
// surface resolves the entry point name to its selector before signing.
type call struct {
	ContractAddress string   `json:"contract_address"`
	EntryPoint      string   `json:"entry_point"`
	Calldata        []string `json:"calldata"`
}

type functionCall struct {
	ContractAddress    string   `json:"contract_address"`
	EntryPointSelector string   `json:"entry_point_selector"`
	Calldata           []string `json:"calldata"`
}

func (c *Client) invoke(ctx context.Context, method string, params any, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter interrupted: %w", err)
		}
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.requestID.Add(1),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.rpcURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return fmt.Errorf("%s request to %s failed: %w", method, c.rpcURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			return fmt.Errorf("%s request to %s failed with default timeout: %w", method, c.rpcURL, err)
		}
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("RPC request failed",
			zap.String("method", method),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return fmt.Errorf("%s request failed with status %d: %s", method, resp.StatusCode(), string(rawBody))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(rawBody, &rpcResp); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w. Body: %s", method, err, string(rawBody))
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s returned RPC error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
		}
	}
	return nil
}

// TokenBalanceOf implements port.ChainReader: balance_of(entityID) on the
// resource token contract, against pending state.
func (c *Client) TokenBalanceOf(ctx context.Context, tokenAddress, entityID string) (*big.Int, error) {
	params := map[string]any{
		"request": functionCall{
			ContractAddress:    tokenAddress,
			EntryPointSelector: balanceOfSelector,
			Calldata:           []string{entityID},
		},
		"block_id": "pending",
	}

	var words []string
	if err := c.invoke(ctx, "starknet_call", params, &words); err != nil {
		return nil, fmt.Errorf("balance_of call for entity %s on %s failed: %w", entityID, tokenAddress, err)
	}

	balance, err := DecodeBalanceWords(words)
	if err != nil {
		return nil, fmt.Errorf("balance_of result for entity %s on %s: %w", entityID, tokenAddress, err)
	}
	return balance, nil
}

func (c *Client) toCalls(ops []entity.WithdrawalOperation) []call {
	calls := make([]call, 0, len(ops))
	for _, op := range ops {
		calls = append(calls, call{
			ContractAddress: c.bridgeContract,
			EntryPoint:      withdrawEntryPoint,
			Calldata: []string{
				op.EntityID,
				op.ToAddress,
				op.TokenAddress,
				EncodeFelt(op.Amount),
				op.FeeRecipient,
			},
		})
	}
	return calls
}

// EstimateFee implements port.TransactionSubmitter. An error means the
// transaction would revert and must not be submitted.
func (c *Client) EstimateFee(ctx context.Context, ops []entity.WithdrawalOperation) error {
	if len(ops) == 0 {
		return nil
	}
	if err := c.invoke(ctx, "account_estimateInvokeFee", []any{c.toCalls(ops)}, nil); err != nil {
		c.logger.Debug("Fee estimation failed", zap.Int("ops", len(ops)), zap.Error(err))
		return err
	}
	return nil
}

// Submit implements port.TransactionSubmitter.
func (c *Client) Submit(ctx context.Context, ops []entity.WithdrawalOperation) (string, error) {
	if len(ops) == 0 {
		return "", fmt.Errorf("nothing to submit")
	}

	var result struct {
		TransactionHash string `json:"transaction_hash"`
	}
	if err := c.invoke(ctx, "account_execute", []any{c.toCalls(ops)}, &result); err != nil {
		return "", err
	}
	if result.TransactionHash == "" {
		return "", fmt.Errorf("account_execute returned no transaction hash")
	}

	c.logger.Info("Transaction submitted",
		zap.Int("ops", len(ops)), zap.String("txHash", result.TransactionHash))
	return result.TransactionHash, nil
}
