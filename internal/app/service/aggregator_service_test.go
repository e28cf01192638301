package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bridge_checker/internal/app/port"
	"bridge_checker/internal/domain/entity"
)

func newAggregator(indexer port.IndexerClient) port.AggregatorService {
	return NewAggregatorService(indexer, nopLogger{}, nil, time.Minute)
}

func TestAggregateNoStructures(t *testing.T) {
	indexer := &mockIndexer{
		whitelist: []entity.WhitelistEntry{{ResourceType: 3, Token: "0xwood"}},
	}
	report, err := newAggregator(indexer).Aggregate(context.Background(), "0xowner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Withdrawable) != 0 || len(report.AllBalances) != 0 {
		t.Error("expected empty report for ownerless address")
	}
	if report.Summary.WhitelistedCount != 1 {
		t.Errorf("WhitelistedCount = %d, want 1", report.Summary.WhitelistedCount)
	}
	if indexer.balancesCalls != 0 {
		t.Error("balance query must be skipped when there are no structures")
	}
}

func TestAggregateIndexerFailure(t *testing.T) {
	indexer := &mockIndexer{structuresErr: errors.New("indexer down")}
	if _, err := newAggregator(indexer).Aggregate(context.Background(), "0xowner"); err == nil {
		t.Fatal("expected hard failure when the indexer is unreachable")
	}
}

func TestAggregateBuildsReport(t *testing.T) {
	indexer := &mockIndexer{
		structures: []entity.Structure{
			{EntityID: "1001", Owner: "0xowner"},
			{EntityID: "1002", Owner: "0xowner"},
		},
		whitelist: []entity.WhitelistEntry{
			{ResourceType: 3, Token: "0xwood"},   // WOOD
			{ResourceType: 37, Token: "0xlords"}, // LORDS
		},
		balances: []port.BalanceRow{
			{EntityID: "1001", ResourceName: "WOOD", Balance: "1500000000"},
			{EntityID: "1001", ResourceName: "COAL", Balance: "2000000000"}, // not whitelisted
			{EntityID: "1002", ResourceName: "WOOD", Balance: "0x0"},        // zero, not withdrawable
			{EntityID: "1002", ResourceName: "LORDS", Balance: "0x3b9aca00"},
			{EntityID: "1002", ResourceName: "BOGUS", Balance: "1"}, // unknown, skipped
		},
	}

	report, err := newAggregator(indexer).Aggregate(context.Background(), "0xowner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.AllBalances) != 4 {
		t.Fatalf("AllBalances = %d rows, want 4", len(report.AllBalances))
	}
	if len(report.Withdrawable) != 2 {
		t.Fatalf("Withdrawable = %d, want 2 (WOOD@1001, LORDS@1002)", len(report.Withdrawable))
	}

	wood := report.Withdrawable[0]
	if wood.ResourceName != "WOOD" || wood.EntityID != "1001" || wood.TokenAddress != "0xwood" {
		t.Errorf("first candidate = %+v", wood)
	}
	if wood.Amount.String() != "1500000000" {
		t.Errorf("WOOD amount = %s", wood.Amount)
	}

	// The zero WOOD row stays visible but is not withdrawable.
	var zeroRow *entity.ResourceBalance
	for i := range report.AllBalances {
		b := &report.AllBalances[i]
		if b.EntityID == "1002" && b.ResourceName == "WOOD" {
			zeroRow = b
		}
	}
	if zeroRow == nil {
		t.Fatal("zero WOOD row missing from AllBalances")
	}
	if zeroRow.IsWithdrawable || !zeroRow.IsWhitelisted {
		t.Errorf("zero row flags = withdrawable:%v whitelisted:%v", zeroRow.IsWithdrawable, zeroRow.IsWhitelisted)
	}

	// COAL has a balance but no token contract.
	for _, b := range report.AllBalances {
		if b.ResourceName == "COAL" && b.IsWhitelisted {
			t.Error("COAL must not be whitelisted")
		}
	}

	s := report.Summary
	if s.TotalEntities != 2 || s.TotalResourcesChecked != 4 || s.WithdrawableCount != 2 || s.WhitelistedCount != 2 {
		t.Errorf("summary = %+v", s)
	}

	// The unknown-resource row surfaces as a soft error, not an abort.
	if len(report.Errors) != 1 || report.Errors[0].ResourceName != "BOGUS" {
		t.Errorf("Errors = %+v", report.Errors)
	}

	// 1.5 WOOD + 2 COAL are raw materials; 1 LORDS is currency.
	if report.Wealth.RawMaterials != "3.5" {
		t.Errorf("RawMaterials = %q, want 3.5", report.Wealth.RawMaterials)
	}
	if report.Wealth.Lords != "1" {
		t.Errorf("Lords = %q, want 1", report.Wealth.Lords)
	}
}

func TestAggregateMalformedBalanceReadsAsZero(t *testing.T) {
	indexer := &mockIndexer{
		structures: []entity.Structure{{EntityID: "1001", Owner: "0xowner"}},
		whitelist:  []entity.WhitelistEntry{{ResourceType: 3, Token: "0xwood"}},
		balances: []port.BalanceRow{
			{EntityID: "1001", ResourceName: "WOOD", Balance: "garbage"},
		},
	}
	report, err := newAggregator(indexer).Aggregate(context.Background(), "0xowner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Withdrawable) != 0 {
		t.Error("malformed balance must not be withdrawable")
	}
	if len(report.AllBalances) != 1 || report.AllBalances[0].AmountFormatted != "0" {
		t.Errorf("malformed balance must read as zero: %+v", report.AllBalances)
	}
}

func TestAggregateStoneAndZeroWood(t *testing.T) {
	indexer := &mockIndexer{
		structures: []entity.Structure{{EntityID: "100", Owner: "0xowner"}},
		whitelist: []entity.WhitelistEntry{
			{ResourceType: 1, Token: "0xstone"},
			{ResourceType: 3, Token: "0xwood"},
		},
		balances: []port.BalanceRow{
			{EntityID: "100", ResourceName: "STONE", Balance: "5000000000"},
			{EntityID: "100", ResourceName: "WOOD", Balance: "0"},
		},
	}
	report, err := newAggregator(indexer).Aggregate(context.Background(), "0xowner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Withdrawable) != 1 {
		t.Fatalf("Withdrawable = %+v", report.Withdrawable)
	}
	stone := report.Withdrawable[0]
	if stone.ResourceName != "STONE" || stone.Amount.String() != "5000000000" {
		t.Errorf("candidate = %+v", stone)
	}

	if len(report.AllBalances) != 2 {
		t.Fatalf("AllBalances = %+v", report.AllBalances)
	}
	for _, b := range report.AllBalances {
		switch b.ResourceName {
		case "STONE":
			if !b.IsWithdrawable || b.AmountFormatted != "5" {
				t.Errorf("STONE balance = %+v", b)
			}
		case "WOOD":
			if b.IsWithdrawable {
				t.Errorf("zero WOOD must not be withdrawable: %+v", b)
			}
		}
	}
}

func TestAggregateCachesWhitelist(t *testing.T) {
	indexer := &mockIndexer{
		structures: []entity.Structure{{EntityID: "1001", Owner: "0xowner"}},
		whitelist:  []entity.WhitelistEntry{{ResourceType: 3, Token: "0xwood"}},
	}
	agg := newAggregator(indexer)

	for i := 0; i < 3; i++ {
		if _, err := agg.Aggregate(context.Background(), "0xowner"); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if indexer.whitelistCalls != 1 {
		t.Errorf("whitelist fetched %d times, want 1 (cached)", indexer.whitelistCalls)
	}
}
