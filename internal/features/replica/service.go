package replica

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"woocrm/internal/config"
	"woocrm/internal/features/contact"
	"woocrm/internal/features/course"
	"woocrm/internal/features/order"
	"woocrm/internal/features/product"
)

// ExportRun records the outcome of the most recent replica export.
type ExportRun struct {
	Status       string    `json:"status"` // "running", "completed", "failed"
	RowsExported int       `json:"rows_exported"`
	Error        string    `json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at,omitempty"`
}

type ReplicaService interface {
	Available() bool
	Export(ctx context.Context) (*ExportRun, error)
	LastRun() *ExportRun
}

type ReplicaServiceImpl struct {
	driver   string
	dsn      string
	contacts contact.ContactRepository
	products product.ProductRepository
	orders   order.OrderRepository
	courses  course.CourseRepository
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	lastRun *ExportRun
}

func NewReplicaService(
	cfg *config.Config,
	contacts contact.ContactRepository,
	products product.ProductRepository,
	orders order.OrderRepository,
	courses course.CourseRepository,
	logger *zap.Logger,
) ReplicaService {
	return &ReplicaServiceImpl{
		driver:   cfg.ReplicaDriver,
		dsn:      cfg.ReplicaDSN,
		contacts: contacts,
		products: products,
		orders:   orders,
		courses:  courses,
		logger:   logger,
	}
}

func (s *ReplicaServiceImpl) Available() bool {
	return s.dsn != "" && (s.driver == "postgres" || s.driver == "mysql")
}

func (s *ReplicaServiceImpl) LastRun() *ExportRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// Export replaces the reporting tables with the current CRM state. Only one
// export runs at a time.
func (s *ReplicaServiceImpl) Export(ctx context.Context) (*ExportRun, error) {
	if !s.Available() {
		return nil, fmt.Errorf("replica not configured")
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, fmt.Errorf("export already running")
	}
	run := &ExportRun{Status: "running", StartedAt: time.Now()}
	s.running = true
	s.lastRun = run
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		run.CompletedAt = time.Now()
		s.mu.Unlock()
	}()

	rows, err := s.export(ctx)

	s.mu.Lock()
	run.RowsExported = rows
	if err != nil {
		run.Status = "failed"
		run.Error = err.Error()
	} else {
		run.Status = "completed"
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("replica export failed", zap.Error(err))
		return run, err
	}
	s.logger.Info("replica export completed", zap.Int("rows", rows))
	return run, nil
}

func (s *ReplicaServiceImpl) export(ctx context.Context) (int, error) {
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return 0, fmt.Errorf("failed to open replica database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return 0, fmt.Errorf("failed to ping replica database: %w", err)
	}

	total := 0
	for _, table := range []struct {
		name string
		load func(context.Context, *sql.DB) (int, error)
	}{
		{"crm_contacts", s.exportContacts},
		{"crm_products", s.exportProducts},
		{"crm_orders", s.exportOrders},
		{"crm_courses", s.exportCourses},
	} {
		count, err := table.load(ctx, db)
		if err != nil {
			return total, fmt.Errorf("table %s: %w", table.name, err)
		}
		total += count
	}
	return total, nil
}

// placeholder returns the driver's positional parameter marker, 1-based.
func (s *ReplicaServiceImpl) placeholder(n int) string {
	if s.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// upsertRow builds and executes one driver-appropriate insert-or-update.
func (s *ReplicaServiceImpl) upsertRow(ctx context.Context, db *sql.DB, table string, columns []string, values []interface{}) error {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = s.placeholder(i + 1)
	}

	var query string
	if s.driver == "postgres" {
		updates := make([]string, 0, len(columns)-1)
		for _, col := range columns {
			if col != "id" {
				updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
			}
		}
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
			table, strings.Join(columns, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))
	} else {
		updates := make([]string, 0, len(columns)-1)
		for _, col := range columns {
			if col != "id" {
				updates = append(updates, fmt.Sprintf("%s = VALUES(%s)", col, col))
			}
		}
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
			table, strings.Join(columns, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))
	}

	_, err := db.ExecContext(ctx, query, values...)
	return err
}

func (s *ReplicaServiceImpl) ensureTable(ctx context.Context, db *sql.DB, table string, columns string) error {
	_, err := db.ExecContext(ctx,
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, columns))
	return err
}

func (s *ReplicaServiceImpl) exportContacts(ctx context.Context, db *sql.DB) (int, error) {
	if err := s.ensureTable(ctx, db, "crm_contacts",
		`id VARCHAR(24) PRIMARY KEY,
		first_name VARCHAR(255),
		last_name VARCHAR(255),
		email VARCHAR(255),
		phone VARCHAR(64),
		country VARCHAR(8),
		language VARCHAR(8),
		status VARCHAR(32),
		source VARCHAR(64),
		woocommerce_id BIGINT,
		created_at TIMESTAMP NULL`); err != nil {
		return 0, err
	}

	count := 0
	page := int64(1)
	for {
		contacts, _, err := s.contacts.List(ctx, contact.ListFilter{Page: page, Limit: 500})
		if err != nil {
			return count, err
		}
		if len(contacts) == 0 {
			break
		}
		for _, c := range contacts {
			err := s.upsertRow(ctx, db, "crm_contacts",
				[]string{"id", "first_name", "last_name", "email", "phone", "country", "language", "status", "source", "woocommerce_id", "created_at"},
				[]interface{}{c.ID.Hex(), c.FirstName, c.LastName, c.Email, c.Phone, c.Country, c.Language, c.Status, c.Source, c.WooCommerceID, c.CreatedAt})
			if err != nil {
				return count, err
			}
			count++
		}
		if len(contacts) < 500 {
			break
		}
		page++
	}
	return count, nil
}

func (s *ReplicaServiceImpl) exportProducts(ctx context.Context, db *sql.DB) (int, error) {
	if err := s.ensureTable(ctx, db, "crm_products",
		`id VARCHAR(24) PRIMARY KEY,
		name VARCHAR(512),
		sku VARCHAR(128),
		price DOUBLE PRECISION,
		category VARCHAR(64),
		language VARCHAR(8),
		source VARCHAR(64),
		woocommerce_id BIGINT,
		is_active BOOLEAN`); err != nil {
		return 0, err
	}

	count := 0
	page := int64(1)
	for {
		products, _, err := s.products.List(ctx, product.ListFilter{Page: page, Limit: 500})
		if err != nil {
			return count, err
		}
		if len(products) == 0 {
			break
		}
		for _, p := range products {
			err := s.upsertRow(ctx, db, "crm_products",
				[]string{"id", "name", "sku", "price", "category", "language", "source", "woocommerce_id", "is_active"},
				[]interface{}{p.ID.Hex(), p.Name, p.SKU, p.Price, p.Category, p.Language, p.Source, p.WooCommerceID, p.IsActive})
			if err != nil {
				return count, err
			}
			count++
		}
		if len(products) < 500 {
			break
		}
		page++
	}
	return count, nil
}

func (s *ReplicaServiceImpl) exportOrders(ctx context.Context, db *sql.DB) (int, error) {
	if err := s.ensureTable(ctx, db, "crm_orders",
		`id VARCHAR(24) PRIMARY KEY,
		order_number VARCHAR(64),
		contact_id VARCHAR(24),
		status VARCHAR(32),
		payment_status VARCHAR(32),
		total_amount DOUBLE PRECISION,
		source VARCHAR(64),
		woocommerce_id BIGINT,
		created_at TIMESTAMP NULL`); err != nil {
		return 0, err
	}

	count := 0
	page := int64(1)
	for {
		orders, _, err := s.orders.List(ctx, order.ListFilter{Page: page, Limit: 500})
		if err != nil {
			return count, err
		}
		if len(orders) == 0 {
			break
		}
		for _, o := range orders {
			err := s.upsertRow(ctx, db, "crm_orders",
				[]string{"id", "order_number", "contact_id", "status", "payment_status", "total_amount", "source", "woocommerce_id", "created_at"},
				[]interface{}{o.ID.Hex(), o.OrderNumber, o.ContactID, o.Status, o.PaymentStatus, o.TotalAmount, o.Source, o.WooCommerceID, o.CreatedAt})
			if err != nil {
				return count, err
			}
			count++
		}
		if len(orders) < 500 {
			break
		}
		page++
	}
	return count, nil
}

func (s *ReplicaServiceImpl) exportCourses(ctx context.Context, db *sql.DB) (int, error) {
	if err := s.ensureTable(ctx, db, "crm_courses",
		`id VARCHAR(24) PRIMARY KEY,
		title VARCHAR(512),
		category VARCHAR(64),
		language VARCHAR(8),
		price DOUBLE PRECISION,
		source VARCHAR(64),
		associated_product_id VARCHAR(24)`); err != nil {
		return 0, err
	}

	count := 0
	page := int64(1)
	for {
		courses, _, err := s.courses.List(ctx, course.ListFilter{Page: page, Limit: 500})
		if err != nil {
			return count, err
		}
		if len(courses) == 0 {
			break
		}
		for _, crs := range courses {
			err := s.upsertRow(ctx, db, "crm_courses",
				[]string{"id", "title", "category", "language", "price", "source", "associated_product_id"},
				[]interface{}{crs.ID.Hex(), crs.Title, crs.Category, crs.Language, crs.Price, crs.Source, crs.AssociatedProductID})
			if err != nil {
				return count, err
			}
			count++
		}
		if len(courses) < 500 {
			break
		}
		page++
	}
	return count, nil
}
