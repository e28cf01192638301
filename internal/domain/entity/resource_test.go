package entity

import "testing"

func TestResourceCatalogCodes(t *testing.T) {
	if len(ResourceCatalog) != 37 {
		t.Fatalf("catalog has %d entries, want 37", len(ResourceCatalog))
	}
	for i, r := range ResourceCatalog {
		if r.Code != i+1 {
			t.Errorf("catalog entry %d has code %d, want %d", i, r.Code, i+1)
		}
	}

	// Spot-check codes that are easy to get wrong.
	checks := map[int]string{
		1:  "STONE",
		15: "HARTWOOD",
		20: "SAPPHIRE",
		24: "EARTHEN_SHARD",
		37: "LORDS",
	}
	for code, name := range checks {
		r, ok := ResourceByCode(code)
		if !ok || r.Name != name {
			t.Errorf("ResourceByCode(%d) = %q, want %q", code, r.Name, name)
		}
	}
}

func TestResourceLookups(t *testing.T) {
	r, ok := ResourceByName("WOOD")
	if !ok || r.Code != 3 {
		t.Errorf("ResourceByName(WOOD) = %+v, %v", r, ok)
	}
	if _, ok := ResourceByName("UNOBTAINIUM"); ok {
		t.Error("expected unknown resource name to miss")
	}
	if _, ok := ResourceByCode(0); ok {
		t.Error("expected code 0 to miss")
	}
	if _, ok := ResourceByCode(38); ok {
		t.Error("expected code 38 to miss")
	}
}

func TestBalanceColumn(t *testing.T) {
	r, _ := ResourceByName("ALCHEMICAL_SILVER")
	if got := r.BalanceColumn(); got != "ALCHEMICAL_SILVER_BALANCE" {
		t.Errorf("BalanceColumn = %q", got)
	}
}

func TestExclusionSet(t *testing.T) {
	var nilSet *ExclusionSet
	if nilSet.Contains("1", "WOOD") {
		t.Error("nil set must contain nothing")
	}
	if nilSet.Size() != 0 {
		t.Error("nil set must be empty")
	}

	s := NewExclusionSet()
	s.Add("1", "WOOD")
	s.Add("1", "WOOD")
	s.Add("2", "COAL")

	if s.Size() != 2 {
		t.Errorf("Size = %d, want 2", s.Size())
	}
	if !s.Contains("1", "WOOD") || !s.Contains("2", "COAL") {
		t.Error("expected added pairs to be contained")
	}
	if s.Contains("1", "COAL") {
		t.Error("pair mixing entity and resource must not match")
	}
}
