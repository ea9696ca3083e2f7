package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avvvet/tcg-services/internal/boostersvc/models"
)

// Gateway is an HTTP client for the chain gateway fronting the deployed
// TCG and Booster contracts. The gateway holds the operator key and does
// the signing; this client only submits call requests and polls receipts.
type Gateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	pollInterval time.Duration
}

// NewGateway creates a gateway client.
func NewGateway(baseURL, apiKey string) *Gateway {
	return &Gateway{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		pollInterval: 2 * time.Second,
	}
}

func (g *Gateway) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	url := g.baseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("gateway error %d: %s", resp.StatusCode, string(data))
	}

	return data, nil
}

type submitRequest struct {
	Contract       string        `json:"contract"`
	Method         string        `json:"method"`
	Args           []interface{} `json:"args"`
	IdempotencyKey string        `json:"idempotency_key"`
}

type submitResponse struct {
	TxHash string `json:"tx_hash"`
}

// submit sends a contract call for signing and broadcast. Every submission
// carries a fresh idempotency key so a gateway-side replay cannot double
// execute the same request.
func (g *Gateway) submit(ctx context.Context, contract, method string, args ...interface{}) (Tx, error) {
	req := submitRequest{
		Contract:       contract,
		Method:         method,
		Args:           args,
		IdempotencyKey: uuid.NewString(),
	}

	data, err := g.doRequest(ctx, "POST", "/v1/tx", req)
	if err != nil {
		return nil, fmt.Errorf("submit %s.%s: %w", contract, method, err)
	}

	var resp submitResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return &gatewayTx{gw: g, hash: resp.TxHash}, nil
}

type receiptResponse struct {
	Status string `json:"status"` // pending | success | reverted
	Receipt
}

type gatewayTx struct {
	gw   *Gateway
	hash string
}

func (t *gatewayTx) Hash() string { return t.hash }

// Wait polls the gateway until the transaction leaves the pending state.
func (t *gatewayTx) Wait(ctx context.Context) (*Receipt, error) {
	ticker := time.NewTicker(t.gw.pollInterval)
	defer ticker.Stop()

	for {
		data, err := t.gw.doRequest(ctx, "GET", "/v1/tx/"+t.hash, nil)
		if err != nil {
			return nil, fmt.Errorf("poll receipt: %w", err)
		}

		var resp receiptResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		if resp.Status != "pending" {
			rcpt := resp.Receipt
			rcpt.TxHash = t.hash
			rcpt.Reverted = resp.Status == "reverted"
			return &rcpt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (g *Gateway) CreateCollection(ctx context.Context, name string, cardCount int) (Tx, error) {
	return g.submit(ctx, "tcg", "createCollection", name, cardCount)
}

func (g *Gateway) MintCard(ctx context.Context, owner string, collectionID int64, cardNumber int) (Tx, error) {
	return g.submit(ctx, "tcg", "mintCard", owner, collectionID, cardNumber)
}

func (g *Gateway) BatchMintCards(ctx context.Context, owners []string, collectionIDs []int64, cardNumbers []int) (Tx, error) {
	return g.submit(ctx, "tcg", "batchMintCards", owners, collectionIDs, cardNumbers)
}

func (g *Gateway) CreateBoosterToken(ctx context.Context, owner string) (Tx, error) {
	return g.submit(ctx, "booster", "createBooster", owner)
}

func (g *Gateway) BindBoosterContent(ctx context.Context, boosterID int64, cardIDs []int64) (Tx, error) {
	return g.submit(ctx, "booster", "setBoosterContent", boosterID, cardIDs)
}

func (g *Gateway) OpenBoosterToken(ctx context.Context, boosterID int64) (Tx, error) {
	return g.submit(ctx, "booster", "openBooster", boosterID)
}

type collectionsResponse struct {
	IDs        []int64  `json:"ids"`
	Names      []string `json:"names"`
	CardCounts []int    `json:"card_counts"`
}

func (g *Gateway) GetCollections(ctx context.Context) ([]models.Collection, error) {
	data, err := g.doRequest(ctx, "GET", "/v1/tcg/collections", nil)
	if err != nil {
		return nil, err
	}

	var resp collectionsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if len(resp.IDs) != len(resp.Names) || len(resp.IDs) != len(resp.CardCounts) {
		return nil, fmt.Errorf("collections response length mismatch: %d ids, %d names, %d counts",
			len(resp.IDs), len(resp.Names), len(resp.CardCounts))
	}

	collections := make([]models.Collection, 0, len(resp.IDs))
	for i := range resp.IDs {
		collections = append(collections, models.Collection{
			ID:        resp.IDs[i],
			Name:      resp.Names[i],
			CardCount: resp.CardCounts[i],
		})
	}

	return collections, nil
}

func (g *Gateway) GetBoosterContent(ctx context.Context, boosterID int64) ([]int64, error) {
	data, err := g.doRequest(ctx, "GET", fmt.Sprintf("/v1/booster/%d/content", boosterID), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		CardIDs []int64 `json:"card_ids"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return resp.CardIDs, nil
}

func (g *Gateway) GetOwner(ctx context.Context, tokenID int64) (string, error) {
	data, err := g.doRequest(ctx, "GET", fmt.Sprintf("/v1/tokens/%d/owner", tokenID), nil)
	if err != nil {
		return "", err
	}

	var resp struct {
		Owner string `json:"owner"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("unmarshal: %w", err)
	}

	return resp.Owner, nil
}

func (g *Gateway) GetAllHolders(ctx context.Context) ([]string, error) {
	data, err := g.doRequest(ctx, "GET", "/v1/tcg/holders", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Addresses []string `json:"addresses"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return resp.Addresses, nil
}

func (g *Gateway) GetHolderCards(ctx context.Context, owner string) ([]models.MintedCard, error) {
	data, err := g.doRequest(ctx, "GET", "/v1/tcg/holders/"+owner+"/cards", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Cards []models.MintedCard `json:"cards"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return resp.Cards, nil
}
