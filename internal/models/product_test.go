package models

import (
	"encoding/json"
	"testing"
)

func TestPriceUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Price
		wantErr bool
	}{
		{name: "number", in: `12.5`, want: 12.5},
		{name: "integer", in: `40`, want: 40},
		{name: "numeric string", in: `"12.5"`, want: 12.5},
		{name: "string with spaces", in: `" 99 "`, want: 99},
		{name: "empty string", in: `""`, want: 0},
		{name: "zero", in: `0`, want: 0},
		{name: "non-numeric string", in: `"free"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Price
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("decoded %s to %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode %s: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriceMarshalNumeric(t *testing.T) {
	var p Product
	if err := json.Unmarshal([]byte(`{"price":"19.99"}`), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := json.Marshal(&p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var round struct {
		Price float64 `json:"price"`
	}
	if err := json.Unmarshal(out, &round); err != nil {
		t.Fatalf("string price survived re-encode: %v", err)
	}
	if round.Price != 19.99 {
		t.Errorf("price = %v, want 19.99", round.Price)
	}
}

func TestStockStatusFor(t *testing.T) {
	tests := []struct {
		stock int
		want  string
	}{
		{-1, StockStatusOut},
		{0, StockStatusOut},
		{1, StockStatusLow},
		{10, StockStatusLow},
		{11, StockStatusIn},
		{500, StockStatusIn},
	}
	for _, tt := range tests {
		if got := StockStatusFor(tt.stock); got != tt.want {
			t.Errorf("StockStatusFor(%d) = %q, want %q", tt.stock, got, tt.want)
		}
	}
}

func TestIsWinEligible(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name string
		flag *bool
		want bool
	}{
		{name: "absent defaults to eligible", flag: nil, want: true},
		{name: "explicit true", flag: &yes, want: true},
		{name: "explicit false", flag: &no, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{WinEligible: tt.flag}
			if got := p.IsWinEligible(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasWinEligible(t *testing.T) {
	if HasWinEligible(nil) {
		t.Error("empty order must not be win-eligible")
	}
	items := []OrderItem{{Name: "a"}, {Name: "b", WinEligible: true}}
	if !HasWinEligible(items) {
		t.Error("one eligible item must mark the order")
	}
	if HasWinEligible(items[:1]) {
		t.Error("no eligible items must not mark the order")
	}
}
