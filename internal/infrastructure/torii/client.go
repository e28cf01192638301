package torii

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bridge_checker/internal/app/port"
	"bridge_checker/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the indexer's SQL endpoint: the query is POSTed as plain
// text and rows come back as a JSON array of objects. Implements
// port.IndexerClient.
type Client struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a new indexer client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("ToriiClient"),
	}
}

// query executes one SQL query and decodes the row set. A zero-row response
// decodes to an empty slice, which callers treat as a normal empty result.
func (c *Client) query(ctx context.Context, sql string) ([]map[string]any, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.baseURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("text/plain")
	req.SetBodyString(sql)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute indexer query", zap.Error(err))
			return nil, fmt.Errorf("failed to execute indexer query against %s: %w", c.baseURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute indexer query (with default timeout)", zap.Error(err))
			return nil, fmt.Errorf("failed to execute indexer query against %s with default timeout: %w", c.baseURL, err)
		}
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Indexer query failed",
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("indexer query against %s failed with status %d: %s", c.baseURL, resp.StatusCode(), string(rawBody))
	}

	var rows []map[string]any
	if err := json.Unmarshal(rawBody, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal indexer rows: %w. Body: %s", err, string(rawBody))
	}
	return rows, nil
}

// StructuresByOwner implements port.IndexerClient.
func (c *Client) StructuresByOwner(ctx context.Context, owner string) ([]entity.Structure, error) {
	rows, err := c.query(ctx, structuresByOwnerQuery(owner))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch structures for %s: %w", owner, err)
	}

	structures := make([]entity.Structure, 0, len(rows))
	for _, row := range rows {
		id := stringField(row, "entity_id")
		if id == "" {
			continue
		}
		structures = append(structures, entity.Structure{EntityID: id, Owner: owner})
	}
	c.logger.Debug("Fetched structures", zap.String("owner", owner), zap.Int("count", len(structures)))
	return structures, nil
}

// BridgeWhitelist implements port.IndexerClient.
func (c *Client) BridgeWhitelist(ctx context.Context) ([]entity.WhitelistEntry, error) {
	rows, err := c.query(ctx, whitelistQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bridge whitelist: %w", err)
	}

	entries := make([]entity.WhitelistEntry, 0, len(rows))
	for _, row := range rows {
		token := stringField(row, "token")
		if token == "" {
			continue
		}
		entries = append(entries, entity.WhitelistEntry{
			ResourceType: intField(row, "resource_type"),
			Token:        token,
		})
	}
	c.logger.Debug("Fetched bridge whitelist", zap.Int("count", len(entries)))
	return entries, nil
}

// NonzeroBalances implements port.IndexerClient.
func (c *Client) NonzeroBalances(ctx context.Context, entityIDs []string) ([]port.BalanceRow, error) {
	if len(entityIDs) == 0 {
		return []port.BalanceRow{}, nil
	}

	rows, err := c.query(ctx, balancesQuery(entityIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resource balances: %w", err)
	}

	balances := make([]port.BalanceRow, 0, len(rows))
	for _, row := range rows {
		balances = append(balances, port.BalanceRow{
			EntityID:     stringField(row, "entity_id"),
			ResourceName: stringField(row, "resource_type"),
			Balance:      stringField(row, "balance"),
		})
	}
	c.logger.Debug("Fetched nonzero balances",
		zap.Int("entities", len(entityIDs)), zap.Int("rows", len(balances)))
	return balances, nil
}

// stringField coerces one row value to string. The indexer returns ids as
// numbers and balance columns as hex strings depending on column affinity.
func stringField(row map[string]any, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

func intField(row map[string]any, key string) int {
	switch v := row[key].(type) {
	case float64:
		return int(v)
	case int64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
