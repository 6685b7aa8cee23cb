package woocommerce

import (
	"fmt"
	"strconv"
	"strings"

	"woocrm/internal/features/contact"
	"woocrm/internal/features/order"
	"woocrm/internal/features/product"
)

// countryLanguages maps billing country codes to CRM languages. Unknown
// countries fall back to Italian, the store's primary market.
var countryLanguages = map[string]string{
	"IT": "it", "SM": "it", "VA": "it",
	"FR": "fr", "CH": "fr", "MC": "fr",
	"DE": "de", "AT": "de", "LI": "de",
	"ES": "es", "AD": "es", "AR": "es", "MX": "es", "CO": "es",
	"GB": "en", "US": "en", "AU": "en", "CA": "en",
	"PT": "pt", "BR": "pt",
	"NL": "nl", "BE": "nl",
	"PL": "pl",
	"RU": "ru",
}

// languageKeywords detects the language of a product name. Checked in
// order, so German beats French beats Spanish beats Italian when a name
// mixes markers.
var languageKeywords = []struct {
	lang  string
	words []string
}{
	{"de", []string{"kurs", "verjüngungskurs", "ausbildung"}},
	{"fr", []string{"formation", "cours", "mois", "officielle", "rejuvenation"}},
	{"es", []string{"formación", "curso", "tarifa", "rejuvenecimiento"}},
	{"it", []string{"corso", "formazione", "rate", "ringiovanimento", "euro", "mese", "mesi"}},
}

var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"corso", []string{"corso", "formation", "formación", "kurs"}},
	{"formazione", []string{"formazione", "training", "ausbildung"}},
	{"consulenza", []string{"consulenza", "consultation", "beratung"}},
}

var durationKeywords = []struct {
	duration string
	words    []string
}{
	{"4 settimane", []string{"base", "basic", "primo"}},
	{"8 settimane", []string{"avanzato", "advanced", "secondo"}},
	{"12 settimane", []string{"completo", "complete", "full"}},
	{"6 settimane", []string{"intensivo", "intensive"}},
}

// LanguageFromCountry maps an ISO country code to a CRM language.
func LanguageFromCountry(code string) string {
	if lang, ok := countryLanguages[strings.ToUpper(code)]; ok {
		return lang
	}
	return "it"
}

// LanguageFromText guesses the language of a product name from keywords.
func LanguageFromText(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range languageKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				return entry.lang
			}
		}
	}
	return "it"
}

// CategorizeProduct derives a CRM category from a product name.
func CategorizeProduct(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range categoryKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				return entry.category
			}
		}
	}
	return "generale"
}

// EstimateCourseDuration picks a duration label from course name markers.
func EstimateCourseDuration(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range durationKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				return entry.duration
			}
		}
	}
	return "8 settimane"
}

// CustomerToContact maps a store customer onto a CRM contact. Name and email
// fall back to the billing address when the account fields are empty.
func CustomerToContact(wc Customer) contact.Contact {
	billing := wc.Billing
	country := strings.ToUpper(billing.Country)

	firstName := wc.FirstName
	if firstName == "" {
		firstName = billing.FirstName
	}
	lastName := wc.LastName
	if lastName == "" {
		lastName = billing.LastName
	}
	email := wc.Email
	if email == "" {
		email = billing.Email
	}

	return contact.Contact{
		WooCommerceID: wc.ID,
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		Phone:         billing.Phone,
		Address:       billing.Address1,
		City:          billing.City,
		PostalCode:    billing.Postcode,
		Country:       country,
		Language:      LanguageFromCountry(country),
		Status:        "client",
		Source:        "woocommerce",
		Notes: fmt.Sprintf("Importato da WooCommerce. Ordini totali: %d, Spesa totale: €%.2f",
			wc.OrdersCount, float64(wc.TotalSpent)),
		WCTotalSpent:  float64(wc.TotalSpent),
		WCOrdersCount: wc.OrdersCount,
	}
}

// ProductToProduct maps a store product onto a CRM product. Category and
// language are derived from the name.
func ProductToProduct(wc Product) product.Product {
	stock := 0
	if wc.StockQuantity != nil {
		stock = *wc.StockQuantity
	}

	return product.Product{
		WooCommerceID: wc.ID,
		Name:          wc.Name,
		Description:   wc.Description,
		Price:         float64(wc.Price),
		SKU:           wc.SKU,
		Category:      CategorizeProduct(wc.Name),
		Language:      LanguageFromText(wc.Name),
		IsActive:      wc.Status == "publish",
		StockQuantity: stock,
		StockStatus:   wc.StockStatus,
		Source:        "woocommerce",
	}
}

// OrderToOrder maps a store order onto a CRM order linked to contactID,
// which may be empty when the order carried no usable billing email.
func OrderToOrder(wc Order, contactID string) order.Order {
	country := strings.ToUpper(wc.Billing.Country)
	language := LanguageFromCountry(country)
	// The billing country often defaults to the store's own, so when it
	// yields Italian retry from the first line item's name.
	if language == "it" && len(wc.LineItems) > 0 {
		if detected := LanguageFromText(wc.LineItems[0].Name); detected != "it" {
			language = detected
		}
	}

	number := wc.Number
	if number == "" {
		number = strconv.FormatInt(wc.ID, 10)
	}

	status := "pending"
	if wc.Status == "completed" || wc.Status == "processing" {
		status = "completed"
	}
	paymentStatus := "pending"
	if wc.Status == "completed" {
		paymentStatus = "paid"
	}

	paymentMethod := wc.PaymentMethodTitle
	if paymentMethod == "" {
		paymentMethod = wc.PaymentMethod
	}

	currency := wc.Currency
	if currency == "" {
		currency = "EUR"
	}

	return order.Order{
		WooCommerceID:   wc.ID,
		ContactID:       contactID,
		OrderNumber:     "WC-" + number,
		Status:          status,
		PaymentStatus:   paymentStatus,
		PaymentMethod:   paymentMethod,
		TotalAmount:     float64(wc.Total),
		Notes:           fmt.Sprintf("Ordine WooCommerce #%s. Stato: %s", wc.Number, wc.Status),
		Source:          "woocommerce",
		Language:        language,
		WCCurrency:      currency,
		WCTotalTax:      float64(wc.TotalTax),
		WCShippingTotal: float64(wc.ShippingTotal),
	}
}
