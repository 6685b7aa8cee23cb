package woocommerce

import (
	"strings"
	"testing"
)

func TestLanguageFromCountry(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"IT", "it"},
		{"FR", "fr"},
		{"CH", "fr"},
		{"DE", "de"},
		{"ES", "es"},
		{"US", "en"},
		{"BE", "nl"},
		{"BR", "pt"},
		{"fr", "fr"}, // case insensitive
		{"XX", "it"}, // unknown falls back to the primary market
		{"", "it"},
	}
	for _, tt := range tests {
		if got := LanguageFromCountry(tt.code); got != tt.want {
			t.Errorf("LanguageFromCountry(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestLanguageFromText(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Verjüngungskurs für Anfänger", "de"},
		{"Formation Rejuvenation 3 mois", "fr"},
		{"Curso de Rejuvenecimiento", "es"},
		{"Corso Base di Ringiovanimento", "it"},
		{"Something neutral", "it"},
		// German markers win over French ones when both appear.
		{"Kurs formation", "de"},
	}
	for _, tt := range tests {
		if got := LanguageFromText(tt.text); got != tt.want {
			t.Errorf("LanguageFromText(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestCategorizeProduct(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Corso Base di Ringiovanimento", "corso"},
		{"Formation officielle", "corso"},
		{"Formazione Avanzata", "formazione"},
		{"Consulenza personale", "consulenza"},
		{"Gift card", "generale"},
	}
	for _, tt := range tests {
		if got := CategorizeProduct(tt.name); got != tt.want {
			t.Errorf("CategorizeProduct(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestEstimateCourseDuration(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Corso Base", "4 settimane"},
		{"Corso Avanzato", "8 settimane"},
		{"Corso Completo", "12 settimane"},
		{"Corso Intensivo", "6 settimane"},
		{"Corso di Ringiovanimento", "8 settimane"}, // default
	}
	for _, tt := range tests {
		if got := EstimateCourseDuration(tt.name); got != tt.want {
			t.Errorf("EstimateCourseDuration(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCustomerToContact(t *testing.T) {
	wc := Customer{
		ID:          501,
		OrdersCount: 3,
		TotalSpent:  450.50,
		Billing: Address{
			FirstName: "Marie",
			LastName:  "Dupont",
			Email:     "marie@example.fr",
			Phone:     "+33 6 12 34 56 78",
			Address1:  "12 Rue de la Paix",
			City:      "Lyon",
			Postcode:  "69001",
			Country:   "FR",
		},
	}

	got := CustomerToContact(wc)

	if got.WooCommerceID != 501 {
		t.Errorf("WooCommerceID = %d, want 501", got.WooCommerceID)
	}
	// Account fields are empty, so the billing address fills them in.
	if got.FirstName != "Marie" || got.LastName != "Dupont" {
		t.Errorf("name = %q %q, want Marie Dupont", got.FirstName, got.LastName)
	}
	if got.Email != "marie@example.fr" {
		t.Errorf("Email = %q, want billing email", got.Email)
	}
	if got.Language != "fr" {
		t.Errorf("Language = %q, want fr", got.Language)
	}
	if got.Status != "client" {
		t.Errorf("Status = %q, want client", got.Status)
	}
	if got.Source != "woocommerce" {
		t.Errorf("Source = %q, want woocommerce", got.Source)
	}
	if got.WCOrdersCount != 3 || got.WCTotalSpent != 450.50 {
		t.Errorf("store stats = %d/%v, want 3/450.5", got.WCOrdersCount, got.WCTotalSpent)
	}
	if !strings.Contains(got.Notes, "Ordini totali: 3") {
		t.Errorf("Notes = %q, want orders count mentioned", got.Notes)
	}
}

func TestCustomerToContactAccountFieldsWin(t *testing.T) {
	wc := Customer{
		ID:        502,
		Email:     "account@example.it",
		FirstName: "Anna",
		LastName:  "Rossi",
		Billing: Address{
			FirstName: "Other",
			LastName:  "Person",
			Email:     "billing@example.it",
			Country:   "IT",
		},
	}

	got := CustomerToContact(wc)
	if got.Email != "account@example.it" {
		t.Errorf("Email = %q, want account email", got.Email)
	}
	if got.FirstName != "Anna" || got.LastName != "Rossi" {
		t.Errorf("name = %q %q, want account name", got.FirstName, got.LastName)
	}
}

func TestProductToProduct(t *testing.T) {
	stock := 10
	wc := Product{
		ID:            77,
		Name:          "Corso Base di Ringiovanimento",
		SKU:           "CORSO-RING-01",
		Price:         297,
		Status:        "publish",
		StockQuantity: &stock,
		StockStatus:   "instock",
	}

	got := ProductToProduct(wc)

	if got.WooCommerceID != 77 {
		t.Errorf("WooCommerceID = %d, want 77", got.WooCommerceID)
	}
	if got.Category != "corso" {
		t.Errorf("Category = %q, want corso", got.Category)
	}
	if got.Language != "it" {
		t.Errorf("Language = %q, want it", got.Language)
	}
	if !got.IsActive {
		t.Error("IsActive = false, want true for published product")
	}
	if got.StockQuantity != 10 {
		t.Errorf("StockQuantity = %d, want 10", got.StockQuantity)
	}
	if got.Source != "woocommerce" {
		t.Errorf("Source = %q, want woocommerce", got.Source)
	}
}

func TestProductToProductDraftInactive(t *testing.T) {
	got := ProductToProduct(Product{ID: 78, Name: "Corso in bozza", Status: "draft"})
	if got.IsActive {
		t.Error("IsActive = true, want false for draft product")
	}
	if got.StockQuantity != 0 {
		t.Errorf("StockQuantity = %d, want 0 when unmanaged", got.StockQuantity)
	}
}

func TestOrderToOrderStatusMapping(t *testing.T) {
	tests := []struct {
		wcStatus    string
		wantStatus  string
		wantPayment string
	}{
		{"completed", "completed", "paid"},
		{"processing", "completed", "pending"},
		{"pending", "pending", "pending"},
		{"cancelled", "pending", "pending"},
	}
	for _, tt := range tests {
		t.Run(tt.wcStatus, func(t *testing.T) {
			got := OrderToOrder(Order{ID: 1, Number: "1", Status: tt.wcStatus}, "")
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.PaymentStatus != tt.wantPayment {
				t.Errorf("PaymentStatus = %q, want %q", got.PaymentStatus, tt.wantPayment)
			}
		})
	}
}

func TestOrderToOrder(t *testing.T) {
	wc := Order{
		ID:                 1001,
		Number:             "1001",
		Status:             "completed",
		Currency:           "EUR",
		Total:              297,
		TotalTax:           12.5,
		ShippingTotal:      0,
		PaymentMethodTitle: "Carta di credito",
		Billing:            Address{Country: "IT", Email: "a@b.it"},
	}

	got := OrderToOrder(wc, "abc123")

	if got.OrderNumber != "WC-1001" {
		t.Errorf("OrderNumber = %q, want WC-1001", got.OrderNumber)
	}
	if got.ContactID != "abc123" {
		t.Errorf("ContactID = %q, want abc123", got.ContactID)
	}
	if got.PaymentMethod != "Carta di credito" {
		t.Errorf("PaymentMethod = %q, want the method title", got.PaymentMethod)
	}
	if got.TotalAmount != 297 || got.WCTotalTax != 12.5 {
		t.Errorf("amounts = %v/%v, want 297/12.5", got.TotalAmount, got.WCTotalTax)
	}
	if got.Source != "woocommerce" {
		t.Errorf("Source = %q, want woocommerce", got.Source)
	}
}

func TestOrderToOrderLanguageFromLineItem(t *testing.T) {
	// Billing says Italy (the store default), but the purchased item is
	// clearly French, so the item wins.
	wc := Order{
		ID:     1002,
		Number: "1002",
		Status: "processing",
		Billing: Address{
			Country: "IT",
		},
		LineItems: []LineItem{
			{Name: "Formation Rejuvenation 3 mois"},
		},
	}

	got := OrderToOrder(wc, "")
	if got.Language != "fr" {
		t.Errorf("Language = %q, want fr from line item", got.Language)
	}

	// A non-Italian billing country is trusted as-is.
	wc.Billing.Country = "DE"
	got = OrderToOrder(wc, "")
	if got.Language != "de" {
		t.Errorf("Language = %q, want de from billing country", got.Language)
	}
}

func TestOrderToOrderDefaults(t *testing.T) {
	got := OrderToOrder(Order{ID: 55, Status: "pending"}, "")
	if got.OrderNumber != "WC-55" {
		t.Errorf("OrderNumber = %q, want WC-55 from order ID", got.OrderNumber)
	}
	if got.WCCurrency != "EUR" {
		t.Errorf("WCCurrency = %q, want EUR default", got.WCCurrency)
	}
}
