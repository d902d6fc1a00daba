package nft

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func indexerServer(t *testing.T, status int, assets []Asset) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api-key") == "" {
			t.Error("api-key query param missing")
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(assets)
		}
	}))
}

func TestCheckEligibilityMatch(t *testing.T) {
	assets := []Asset{
		{Mint: "mint-1", Name: "First", Creators: []Creator{{Address: "CreatorX", Verified: true}}},
		{Mint: "mint-2", Name: "Second", Creators: []Creator{{Address: "C2", Verified: true}}},
		{Mint: "mint-3", Name: "Third", Creators: []Creator{{Address: "C2", Verified: true}}},
	}
	srv := indexerServer(t, http.StatusOK, assets)
	defer srv.Close()

	client := NewIndexerClient(srv.URL, "test-key", zap.NewNop())
	eligible, asset, err := client.CheckEligibility(context.Background(), "wallet", []string{"C2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eligible {
		t.Fatal("expected eligible")
	}
	// First match wins, not the last.
	if asset.Mint != "mint-2" {
		t.Errorf("asset.Mint = %q, want mint-2", asset.Mint)
	}
	if asset.Creator != "C2" {
		t.Errorf("asset.Creator = %q, want C2", asset.Creator)
	}
}

func TestCheckEligibilityUnverifiedCreator(t *testing.T) {
	assets := []Asset{
		{Mint: "mint-1", Name: "First", Creators: []Creator{{Address: "C2", Verified: false}}},
	}
	srv := indexerServer(t, http.StatusOK, assets)
	defer srv.Close()

	client := NewIndexerClient(srv.URL, "test-key", zap.NewNop())
	eligible, asset, err := client.CheckEligibility(context.Background(), "wallet", []string{"C2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eligible || asset != nil {
		t.Error("unverified creator must not qualify")
	}
}

func TestCheckEligibilityCreatorNotAuthorized(t *testing.T) {
	assets := []Asset{
		{Mint: "mint-1", Name: "First", Creators: []Creator{{Address: "C1", Verified: true}}},
	}
	srv := indexerServer(t, http.StatusOK, assets)
	defer srv.Close()

	client := NewIndexerClient(srv.URL, "test-key", zap.NewNop())
	eligible, _, err := client.CheckEligibility(context.Background(), "wallet", []string{"C2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eligible {
		t.Error("creator outside the allow-list must not qualify")
	}
}

func TestCheckEligibilityNoAssets(t *testing.T) {
	srv := indexerServer(t, http.StatusOK, nil)
	defer srv.Close()

	client := NewIndexerClient(srv.URL, "test-key", zap.NewNop())
	eligible, _, err := client.CheckEligibility(context.Background(), "wallet", []string{"C2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eligible {
		t.Error("wallet with no assets must not qualify")
	}
}

func TestCheckEligibilityIndexerErrorFailsClosed(t *testing.T) {
	srv := indexerServer(t, http.StatusInternalServerError, nil)
	defer srv.Close()

	client := NewIndexerClient(srv.URL, "test-key", zap.NewNop())
	eligible, _, err := client.CheckEligibility(context.Background(), "wallet", []string{"C2"})
	if err == nil {
		t.Fatal("expected error from failing indexer")
	}
	if eligible {
		t.Error("indexer failure must fail closed")
	}
}

func TestCheckEligibilityIndexerUnreachable(t *testing.T) {
	srv := indexerServer(t, http.StatusOK, nil)
	srv.Close() // connection refused from here on

	client := NewIndexerClient(srv.URL, "test-key", zap.NewNop())
	eligible, _, err := client.CheckEligibility(context.Background(), "wallet", []string{"C2"})
	if err == nil {
		t.Fatal("expected error from unreachable indexer")
	}
	if eligible {
		t.Error("unreachable indexer must fail closed")
	}
}

func TestAllowlistChecker(t *testing.T) {
	checker := NewAllowlistChecker([]string{"0xAbC123", "WalletTwo"})

	tests := []struct {
		wallet string
		want   bool
	}{
		{"0xAbC123", true},
		{"0xabc123", true}, // case-insensitive
		{"WALLETTWO", true},
		{"0xAbC1234", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.wallet, func(t *testing.T) {
			eligible, asset, err := checker.CheckEligibility(context.Background(), tt.wallet, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if eligible != tt.want {
				t.Errorf("eligible = %v, want %v", eligible, tt.want)
			}
			if asset != nil {
				t.Error("allowlist checker should not return an asset")
			}
		})
	}
}
