package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Category
		wantOK bool
	}{
		{name: "sentinel", input: "All", want: CategoryAll, wantOK: true},
		{name: "concrete", input: "Data & Analytics", want: CategoryData, wantOK: true},
		{name: "case sensitive", input: "finance", wantOK: false},
		{name: "unknown", input: "Weather", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCategory(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseCategory(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{input: "Finance", want: CategoryFinance},
		{input: "All", want: CategoryOthers},
		{input: "Weather", want: CategoryOthers},
		{input: "", want: CategoryOthers},
	}

	for _, tt := range tests {
		if got := NormalizeCategory(tt.input); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategoriesStartWithSentinel(t *testing.T) {
	if len(Categories) != 10 {
		t.Fatalf("expected 10 categories, got %d", len(Categories))
	}
	if Categories[0] != CategoryAll {
		t.Errorf("first category = %q, want %q", Categories[0], CategoryAll)
	}
}

func TestDiscoveryErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("refresh: %w", &DiscoveryError{Category: "Finance", Op: "generate", Err: cause})

	var de *DiscoveryError
	if !errors.As(err, &de) {
		t.Fatal("errors.As should find the DiscoveryError")
	}
	if de.Category != "Finance" {
		t.Errorf("Category = %q, want Finance", de.Category)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}

func TestStoredUserPublicDropsPassword(t *testing.T) {
	u := StoredUser{
		UserAccount: UserAccount{ID: "u1", Username: "ash", Email: "ash@example.com"},
		Password:    "pikachu",
	}
	pub := u.Public()
	if pub.ID != "u1" || pub.Email != "ash@example.com" {
		t.Errorf("Public() = %+v, want identity preserved", pub)
	}
}

func TestDedupKey(t *testing.T) {
	a := ApiListing{ID: "1", Name: "PokeAPI", Website: "https://pokeapi.co/"}
	b := ApiListing{ID: "2", Name: "PokeAPI", Website: "https://pokeapi.co/"}
	if a.DedupKey() != b.DedupKey() {
		t.Error("listings with the same name and website must share a dedup key")
	}
}
