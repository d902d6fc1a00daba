package nft

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Asset is one NFT as reported by the indexer.
type Asset struct {
	Mint     string    `json:"mint"`
	Name     string    `json:"name"`
	Image    string    `json:"image,omitempty"`
	Creators []Creator `json:"creators"`
}

type Creator struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
}

// QualifyingAsset is the asset that satisfied the eligibility check, kept for
// audit and display.
type QualifyingAsset struct {
	Mint    string `json:"mint"`
	Creator string `json:"creator"`
	Name    string `json:"name"`
	Image   string `json:"image,omitempty"`
}

// IndexerClient talks to a Helius-style NFT indexing API.
type IndexerClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

func NewIndexerClient(baseURL, apiKey string, log *zap.Logger) *IndexerClient {
	return &IndexerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// ListOwnedAssets returns every NFT the wallet currently holds.
// The indexer is untrusted and possibly slow; callers must treat errors as
// "not eligible", never as eligible.
func (c *IndexerClient) ListOwnedAssets(ctx context.Context, walletAddress string) ([]Asset, error) {
	reqURL := fmt.Sprintf("%s/v0/addresses/%s/nfts?api-key=%s",
		c.baseURL, url.PathEscape(walletAddress), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("indexer unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("indexer returned %d: %s", resp.StatusCode, string(body))
	}

	var assets []Asset
	if err := json.NewDecoder(resp.Body).Decode(&assets); err != nil {
		return nil, fmt.Errorf("indexer response decode: %w", err)
	}
	return assets, nil
}

// CheckEligibility reports whether the wallet holds an NFT minted by one of
// the authorized creators with a verified creator attestation. The first
// matching asset wins. Indexer failure fails closed.
func (c *IndexerClient) CheckEligibility(ctx context.Context, walletAddress string, authorizedCreators []string) (bool, *QualifyingAsset, error) {
	assets, err := c.ListOwnedAssets(ctx, walletAddress)
	if err != nil {
		c.log.Warn("nft eligibility check failed", zap.String("wallet", walletAddress), zap.Error(err))
		return false, nil, err
	}

	for _, asset := range assets {
		for _, creator := range asset.Creators {
			if !creator.Verified {
				continue
			}
			if !containsAddress(authorizedCreators, creator.Address) {
				continue
			}

			name := asset.Name
			if name == "" {
				name = "Unknown NFT"
			}
			return true, &QualifyingAsset{
				Mint:    asset.Mint,
				Creator: creator.Address,
				Name:    name,
				Image:   asset.Image,
			}, nil
		}
	}

	return false, nil, nil
}

func containsAddress(list []string, addr string) bool {
	for _, a := range list {
		if strings.EqualFold(a, addr) {
			return true
		}
	}
	return false
}
