package woocommerce

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"woocrm/internal/features/product"
)

type syncFixture struct {
	client   *fakeClient
	contacts *memContactRepo
	products *memProductRepo
	orders   *memOrderRepo
	items    *memOrderItemRepo
	mirrors  *memMirrorRepo
	logs     *memSyncLogRepo
	settings *memSettingsRepo
	courses  *memCourseRepo
	tombs    *memTombstoneRepo
	sink     *recordingSink
	service  SyncService
}

func newSyncFixture(client *fakeClient) *syncFixture {
	f := &syncFixture{
		client:   client,
		contacts: &memContactRepo{},
		products: &memProductRepo{},
		orders:   &memOrderRepo{},
		items:    newMemOrderItemRepo(),
		mirrors:  newMemMirrorRepo(),
		logs:     &memSyncLogRepo{},
		settings: &memSettingsRepo{},
		courses:  &memCourseRepo{},
		tombs:    &memTombstoneRepo{},
		sink:     &recordingSink{},
	}
	logger := zap.NewNop()
	policy := NewCoursePolicy(f.courses, f.tombs, logger)
	f.service = NewSyncService(client, f.contacts, f.products, f.orders, f.items,
		f.mirrors, f.logs, f.settings, policy, f.sink, logger)
	return f
}

func frenchCustomer() Customer {
	return Customer{
		ID:          501,
		OrdersCount: 3,
		TotalSpent:  450.50,
		Billing: Address{
			FirstName: "Marie",
			LastName:  "Dupont",
			Email:     "marie@example.fr",
			Country:   "FR",
		},
		DateModified: "2025-01-10T09:00:00",
	}
}

func TestSyncCustomersClientUnavailable(t *testing.T) {
	f := newSyncFixture(&fakeClient{available: false})

	_, err := f.service.SyncCustomers(context.Background(), false)
	if err != ErrClientUnavailable {
		t.Fatalf("error = %v, want ErrClientUnavailable", err)
	}
	if len(f.logs.logs) != 0 {
		t.Errorf("sync logs = %d, want none when the client is not configured", len(f.logs.logs))
	}
}

func TestSyncCustomersIdempotent(t *testing.T) {
	f := newSyncFixture(&fakeClient{available: true, customers: []Customer{frenchCustomer()}})
	ctx := context.Background()

	for run := 0; run < 2; run++ {
		processed, err := f.service.SyncCustomers(ctx, false)
		if err != nil {
			t.Fatalf("run %d: SyncCustomers() error = %v", run, err)
		}
		if processed != 1 {
			t.Errorf("run %d: processed = %d, want 1", run, processed)
		}
	}

	if len(f.contacts.contacts) != 1 {
		t.Fatalf("contacts = %d, want 1 after two runs", len(f.contacts.contacts))
	}
	got := f.contacts.contacts[0]
	if got.Email != "marie@example.fr" || got.Language != "fr" || got.Status != "client" {
		t.Errorf("contact = %+v", got)
	}
	if f.contacts.updates == 0 {
		t.Error("second run must update the existing contact, not create a new one")
	}

	if _, ok := f.mirrors.customers[501]; !ok {
		t.Error("customer mirror not written")
	}

	if len(f.logs.logs) != 2 {
		t.Fatalf("sync logs = %d, want one per run", len(f.logs.logs))
	}
	for i, log := range f.logs.logs {
		if log.Status != "completed" {
			t.Errorf("log %d status = %q, want completed", i, log.Status)
		}
		if log.RecordsProcessed != 1 {
			t.Errorf("log %d records = %d, want 1", i, log.RecordsProcessed)
		}
		if log.EntityType != "customers" || log.SyncType != "full" {
			t.Errorf("log %d = %s/%s, want customers/full", i, log.EntityType, log.SyncType)
		}
		if log.CompletedAt == nil {
			t.Errorf("log %d has no completion time", i)
		}
	}

	wantEvents := []string{"sync_started", "sync_completed", "sync_started", "sync_completed"}
	if len(f.sink.events) != len(wantEvents) {
		t.Fatalf("events = %v, want %v", f.sink.events, wantEvents)
	}
	for i, event := range wantEvents {
		if f.sink.events[i] != event {
			t.Errorf("event %d = %q, want %q", i, f.sink.events[i], event)
		}
	}
}

func TestSyncCustomersIncrementalCutoff(t *testing.T) {
	f := newSyncFixture(&fakeClient{available: true})
	ctx := context.Background()

	last := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	f.mirrors.lastSync[KindCustomers] = last

	if _, err := f.service.SyncCustomers(ctx, true); err != nil {
		t.Fatalf("SyncCustomers() error = %v", err)
	}
	if len(f.client.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(f.client.calls))
	}

	got := f.client.calls[0]
	want := last.Add(-5 * time.Minute)
	if !got.ModifiedAfter.Equal(want) {
		t.Errorf("ModifiedAfter = %v, want last sync minus the overlap (%v)", got.ModifiedAfter, want)
	}
	if got.Page != 1 || got.PerPage != 100 || got.Order != "desc" {
		t.Errorf("params = %+v", got)
	}
	if got.OrderBy != "registered_date" {
		t.Errorf("OrderBy = %q, want registered_date for customers", got.OrderBy)
	}

	// A full sync ignores the stored watermark.
	if _, err := f.service.SyncCustomers(ctx, false); err != nil {
		t.Fatalf("SyncCustomers() error = %v", err)
	}
	if !f.client.calls[1].ModifiedAfter.IsZero() {
		t.Errorf("full sync ModifiedAfter = %v, want zero", f.client.calls[1].ModifiedAfter)
	}
}

func TestSyncCustomersFirstIncrementalHasNoCutoff(t *testing.T) {
	f := newSyncFixture(&fakeClient{available: true})

	if _, err := f.service.SyncCustomers(context.Background(), true); err != nil {
		t.Fatalf("SyncCustomers() error = %v", err)
	}
	if !f.client.calls[0].ModifiedAfter.IsZero() {
		t.Errorf("ModifiedAfter = %v, want zero before the first sync", f.client.calls[0].ModifiedAfter)
	}
}

func TestSyncFailureRecordedOnce(t *testing.T) {
	f := newSyncFixture(&fakeClient{
		available: true,
		err:       &APIError{Status: 500, Body: "boom"},
	})

	_, err := f.service.SyncCustomers(context.Background(), true)
	if err == nil {
		t.Fatal("SyncCustomers() expected an error")
	}

	if len(f.logs.logs) != 1 {
		t.Fatalf("sync logs = %d, want exactly one failed entry", len(f.logs.logs))
	}
	log := f.logs.logs[0]
	if log.Status != "failed" {
		t.Errorf("status = %q, want failed", log.Status)
	}
	if !strings.Contains(log.ErrorMessage, "*woocommerce.APIError") {
		t.Errorf("error message %q must name the error type", log.ErrorMessage)
	}
	if !strings.Contains(log.ErrorMessage, "boom") {
		t.Errorf("error message %q must carry the response body", log.ErrorMessage)
	}
	if log.CompletedAt == nil {
		t.Error("failed log has no completion time")
	}

	if len(f.sink.events) != 2 || f.sink.events[1] != "sync_failed" {
		t.Errorf("events = %v, want sync_started then sync_failed", f.sink.events)
	}
}

func TestSyncRejectedWhileRunning(t *testing.T) {
	f := newSyncFixture(&fakeClient{available: true})

	impl := f.service.(*SyncServiceImpl)
	impl.locks[KindCustomers].Lock()
	defer impl.locks[KindCustomers].Unlock()

	_, err := f.service.SyncCustomers(context.Background(), true)
	if err != ErrSyncRunning {
		t.Fatalf("error = %v, want ErrSyncRunning", err)
	}
	if len(f.logs.logs) != 0 {
		t.Errorf("sync logs = %d, want none for a rejected run", len(f.logs.logs))
	}

	// Other kinds are not blocked by the customers lock.
	if _, err := f.service.SyncProducts(context.Background(), true); err != nil {
		t.Errorf("SyncProducts() error = %v, want independent locks", err)
	}
}

func TestSyncProductsCreatesCourse(t *testing.T) {
	wc := Product{
		ID:     77,
		Name:   "Corso Base di Ringiovanimento",
		SKU:    "CORSO-RING-01",
		Price:  297,
		Status: "publish",
	}
	f := newSyncFixture(&fakeClient{available: true, products: []Product{wc}})
	ctx := context.Background()

	for run := 0; run < 2; run++ {
		if _, err := f.service.SyncProducts(ctx, false); err != nil {
			t.Fatalf("run %d: SyncProducts() error = %v", run, err)
		}
	}

	if len(f.products.products) != 1 {
		t.Fatalf("products = %d, want 1 after two runs", len(f.products.products))
	}
	storedProduct := f.products.products[0]

	if len(f.courses.courses) != 1 {
		t.Fatalf("courses = %d, want exactly 1 derived course", len(f.courses.courses))
	}
	got := f.courses.courses[0]
	if got.Title != wc.Name {
		t.Errorf("course title = %q, want %q", got.Title, wc.Name)
	}
	if got.AssociatedProductID != storedProduct.ID.Hex() {
		t.Errorf("AssociatedProductID = %q, want %q", got.AssociatedProductID, storedProduct.ID.Hex())
	}
	if got.Instructor != "Grigori Grabovoi" {
		t.Errorf("Instructor = %q", got.Instructor)
	}
	if got.Source != "woocommerce_auto" {
		t.Errorf("Source = %q, want woocommerce_auto", got.Source)
	}
	if got.Price != 297 {
		t.Errorf("Price = %v, want the product price", got.Price)
	}

	if _, ok := f.mirrors.products[77]; !ok {
		t.Error("product mirror not written")
	}
}

func TestSyncProductsNonCourseSkipsCourse(t *testing.T) {
	f := newSyncFixture(&fakeClient{available: true, products: []Product{
		{ID: 80, Name: "Gift card", Status: "publish"},
	}})

	if _, err := f.service.SyncProducts(context.Background(), false); err != nil {
		t.Fatalf("SyncProducts() error = %v", err)
	}
	if len(f.courses.courses) != 0 {
		t.Errorf("courses = %d, want none for a non-course product", len(f.courses.courses))
	}
}

func TestSyncOrdersLinksAndItems(t *testing.T) {
	wc := Order{
		ID:     1001,
		Number: "1001",
		Status: "completed",
		Total:  297,
		Billing: Address{
			FirstName: "Mario",
			LastName:  "Bianchi",
			Email:     "Mario@Example.it",
			Country:   "IT",
		},
		LineItems: []LineItem{
			{ID: 1, Name: "Corso Base in 3 rate", Quantity: 1, Price: 99, Total: 297},
		},
	}
	f := newSyncFixture(&fakeClient{available: true, orders: []Order{wc}})
	ctx := context.Background()

	for run := 0; run < 2; run++ {
		if _, err := f.service.SyncOrders(ctx, false); err != nil {
			t.Fatalf("run %d: SyncOrders() error = %v", run, err)
		}
	}

	if len(f.contacts.contacts) != 1 {
		t.Fatalf("contacts = %d, want the billing contact created once", len(f.contacts.contacts))
	}
	gotContact := f.contacts.contacts[0]
	if gotContact.Email != "mario@example.it" {
		t.Errorf("contact email = %q, want lowercased billing email", gotContact.Email)
	}
	if gotContact.Source != "woocommerce_order" {
		t.Errorf("contact source = %q, want woocommerce_order", gotContact.Source)
	}

	if len(f.orders.orders) != 1 {
		t.Fatalf("orders = %d, want 1 after two runs", len(f.orders.orders))
	}
	gotOrder := f.orders.orders[0]
	if gotOrder.OrderNumber != "WC-1001" {
		t.Errorf("order number = %q, want WC-1001", gotOrder.OrderNumber)
	}
	if gotOrder.ContactID != gotContact.ID.Hex() {
		t.Errorf("order contact = %q, want %q", gotOrder.ContactID, gotContact.ID.Hex())
	}
	if f.orders.updates == 0 {
		t.Error("second run must update the existing order")
	}

	// The unknown line item becomes a catalog product, stripped of its
	// installment suffix.
	if len(f.products.products) != 1 {
		t.Fatalf("products = %d, want the auto-created one", len(f.products.products))
	}
	autoProduct := f.products.products[0]
	if autoProduct.Name != "Corso Base" {
		t.Errorf("auto product name = %q, want Corso Base", autoProduct.Name)
	}
	if autoProduct.Source != "woocommerce_auto" {
		t.Errorf("auto product source = %q", autoProduct.Source)
	}
	if !strings.HasPrefix(autoProduct.SKU, "WC-AUTO-") {
		t.Errorf("auto product SKU = %q, want generated WC-AUTO prefix", autoProduct.SKU)
	}
	if autoProduct.WCOriginalName != "Corso Base in 3 rate" {
		t.Errorf("WCOriginalName = %q", autoProduct.WCOriginalName)
	}

	items := f.items.byOrder[gotOrder.ID.Hex()]
	if len(items) != 1 {
		t.Fatalf("order items = %d, want 1 after replace", len(items))
	}
	item := items[0]
	if item.ProductID != autoProduct.ID.Hex() {
		t.Errorf("item product = %q, want %q", item.ProductID, autoProduct.ID.Hex())
	}
	if item.RateInfo == nil || item.RateInfo.Type != "rate" || item.RateInfo.NumRates != 3 {
		t.Errorf("item rate info = %+v, want 3 rate", item.RateInfo)
	}
	if f.items.replaces != 2 {
		t.Errorf("item replaces = %d, want one per run", f.items.replaces)
	}

	// The course-like auto product also gets its derived course.
	if len(f.courses.courses) != 1 {
		t.Errorf("courses = %d, want 1 for the auto product", len(f.courses.courses))
	}

	if _, ok := f.mirrors.orders[1001]; !ok {
		t.Error("order mirror not written")
	}
}

func TestSyncOrdersMatchesItemBySKU(t *testing.T) {
	f := newSyncFixture(&fakeClient{available: true, orders: []Order{{
		ID:      1002,
		Number:  "1002",
		Status:  "processing",
		Billing: Address{Email: "x@y.it", Country: "IT"},
		LineItems: []LineItem{
			{ID: 2, Name: "Corso Avanzato", SKU: "CORSO-AVZ", Quantity: 1, Price: 397, Total: 397},
		},
	}}})

	seeded := product.Product{Name: "Corso Avanzato", SKU: "CORSO-AVZ", Price: 397}
	if _, err := f.products.Create(context.Background(), &seeded); err != nil {
		t.Fatal(err)
	}

	if _, err := f.service.SyncOrders(context.Background(), false); err != nil {
		t.Fatalf("SyncOrders() error = %v", err)
	}

	if len(f.products.products) != 1 {
		t.Fatalf("products = %d, want the existing one reused", len(f.products.products))
	}
	items := f.items.byOrder[f.orders.orders[0].ID.Hex()]
	if len(items) != 1 || items[0].ProductID != f.products.products[0].ID.Hex() {
		t.Errorf("items = %+v, want link to the SKU-matched product", items)
	}
}

func TestSyncOrdersWithoutEmailStaysUnlinked(t *testing.T) {
	f := newSyncFixture(&fakeClient{available: true, orders: []Order{{
		ID:     1003,
		Number: "1003",
		Status: "pending",
	}}})

	if _, err := f.service.SyncOrders(context.Background(), false); err != nil {
		t.Fatalf("SyncOrders() error = %v", err)
	}

	if len(f.contacts.contacts) != 0 {
		t.Errorf("contacts = %d, want none without a billing email", len(f.contacts.contacts))
	}
	if len(f.orders.orders) != 1 {
		t.Fatalf("orders = %d, want the order stored anyway", len(f.orders.orders))
	}
	if f.orders.orders[0].ContactID != "" {
		t.Errorf("ContactID = %q, want empty", f.orders.orders[0].ContactID)
	}
}

func TestRunFullSyncAbortsOnFailure(t *testing.T) {
	f := newSyncFixture(&fakeClient{
		available: true,
		err:       &APIError{Status: 503, Body: "maintenance"},
	})

	f.service.RunFullSync(context.Background())

	// The customers step failed, so products and orders were never fetched.
	if len(f.client.calls) != 1 {
		t.Errorf("client calls = %d, want the chain aborted after the first failure", len(f.client.calls))
	}
	if len(f.logs.logs) != 1 || f.logs.logs[0].EntityType != "customers" {
		t.Errorf("logs = %+v, want a single failed customers entry", f.logs.logs)
	}
}

func TestUpdateSettings(t *testing.T) {
	f := newSyncFixture(&fakeClient{available: true})
	ctx := context.Background()

	if _, err := f.service.UpdateSettings(ctx, &SettingsUpdate{SyncIntervalOrders: intPtr(0)}, "admin"); err == nil {
		t.Error("UpdateSettings() must reject a zero interval")
	}

	saved, err := f.service.UpdateSettings(ctx, &SettingsUpdate{
		SyncIntervalOrders: intPtr(5),
		AutoSyncEnabled:    boolPtr(false),
	}, "admin@woocrm.local")
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	if saved.SyncIntervalOrders != 5 || saved.AutoSyncEnabled {
		t.Errorf("saved = %+v", saved)
	}
	if saved.UpdatedBy != "admin@woocrm.local" {
		t.Errorf("UpdatedBy = %q", saved.UpdatedBy)
	}

	stored, err := f.service.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if stored.SyncIntervalOrders != 5 {
		t.Errorf("stored interval = %d, want the update persisted", stored.SyncIntervalOrders)
	}
}

func TestStatus(t *testing.T) {
	f := newSyncFixture(&fakeClient{available: true, customers: []Customer{frenchCustomer()}})
	ctx := context.Background()

	if _, err := f.service.SyncCustomers(ctx, false); err != nil {
		t.Fatalf("SyncCustomers() error = %v", err)
	}

	status, err := f.service.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !status.WooCommerceConnection {
		t.Error("WooCommerceConnection = false, want true")
	}
	if status.CustomerCount != 1 {
		t.Errorf("CustomerCount = %d, want 1", status.CustomerCount)
	}
	if len(status.RecentSyncLogs) != 1 {
		t.Errorf("RecentSyncLogs = %d, want 1", len(status.RecentSyncLogs))
	}
}
