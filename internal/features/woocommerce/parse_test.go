package woocommerce

import (
	"testing"

	"woocrm/internal/features/order"
)

func TestBaseProductName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain name untouched",
			in:   "Corso Base di Ringiovanimento",
			want: "Corso Base di Ringiovanimento",
		},
		{
			name: "in N rate suffix",
			in:   "Corso Base in 3 rate",
			want: "Corso Base",
		},
		{
			name: "dash N rate suffix",
			in:   "Corso Avanzato - 3 rate",
			want: "Corso Avanzato",
		},
		{
			name: "parenthesized rate suffix",
			in:   "Formazione Completa (3 rate)",
			want: "Formazione Completa",
		},
		{
			name: "monthly installment suffix",
			in:   "Formation Rejuvenation € 99 x 3 mois",
			want: "Formation Rejuvenation",
		},
		{
			name: "dash price suffix",
			in:   "Corso Base - € 297.00",
			want: "Corso Base",
		},
		{
			name: "bare price suffix",
			in:   "Corso Base € 1,200.00",
			want: "Corso Base",
		},
		{
			name: "whitespace collapsed",
			in:   "Corso  Base   in 2 rate",
			want: "Corso Base",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BaseProductName(tt.in); got != tt.want {
				t.Errorf("BaseProductName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractRateInfo(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *order.RateInfo
	}{
		{
			name: "no installment info",
			in:   "Corso Base di Ringiovanimento",
			want: nil,
		},
		{
			name: "N rate",
			in:   "Corso Base in 3 rate",
			want: &order.RateInfo{Type: "rate", NumRates: 3},
		},
		{
			name: "single rata",
			in:   "Corso Avanzato - 1 rate",
			want: &order.RateInfo{Type: "rate", NumRates: 1},
		},
		{
			name: "monthly euros",
			in:   "Formation Rejuvenation € 99 x 3 mois",
			want: &order.RateInfo{Type: "monthly", MonthlyAmount: 99, NumMonths: 3},
		},
		{
			name: "monthly with comma decimal",
			in:   "Formation officielle € 149,50 x 6 mois",
			want: &order.RateInfo{Type: "monthly", MonthlyAmount: 149.5, NumMonths: 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRateInfo(tt.in)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("ExtractRateInfo(%q) = %+v, want nil", tt.in, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ExtractRateInfo(%q) = nil, want %+v", tt.in, tt.want)
			}
			if got.Type != tt.want.Type {
				t.Errorf("Type = %q, want %q", got.Type, tt.want.Type)
			}
			if got.NumRates != tt.want.NumRates {
				t.Errorf("NumRates = %d, want %d", got.NumRates, tt.want.NumRates)
			}
			if got.MonthlyAmount != tt.want.MonthlyAmount {
				t.Errorf("MonthlyAmount = %v, want %v", got.MonthlyAmount, tt.want.MonthlyAmount)
			}
			if got.NumMonths != tt.want.NumMonths {
				t.Errorf("NumMonths = %d, want %d", got.NumMonths, tt.want.NumMonths)
			}
		})
	}
}
