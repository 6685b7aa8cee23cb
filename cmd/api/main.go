package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "woocrm/internal/common/api"
	"woocrm/internal/config"
	"woocrm/internal/database"
	"woocrm/internal/features/auth"
	"woocrm/internal/features/contact"
	"woocrm/internal/features/course"
	"woocrm/internal/features/dashboard"
	"woocrm/internal/features/importer"
	"woocrm/internal/features/order"
	"woocrm/internal/features/product"
	"woocrm/internal/features/replica"
	"woocrm/internal/features/rule"
	"woocrm/internal/features/system"
	"woocrm/internal/features/tag"
	"woocrm/internal/features/woocommerce"
	"woocrm/internal/logger"
	"woocrm/internal/middleware"
	"woocrm/pkg/utils"

	_ "woocrm/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d route groups\n", len(routes))
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// StartScheduler boots the sync scheduler and seeds it from the stored
// settings, so the schedule survives restarts.
func StartScheduler(
	lc fx.Lifecycle,
	scheduler *woocommerce.Scheduler,
	service woocommerce.SyncService,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			settings, err := service.GetSettings(ctx)
			if err != nil {
				return fmt.Errorf("failed to load sync settings: %w", err)
			}
			scheduler.Start()
			scheduler.Reconcile(settings)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(
	lc fx.Lifecycle,
	contacts contact.ContactRepository,
	products product.ProductRepository,
	orders order.OrderRepository,
	courses course.CourseRepository,
	mirrors woocommerce.MirrorRepository,
	syncLogs woocommerce.SyncLogRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				ensure := map[string]func(context.Context) error{
					"contacts":  contacts.EnsureIndexes,
					"products":  products.EnsureIndexes,
					"orders":    orders.EnsureIndexes,
					"courses":   courses.EnsureIndexes,
					"mirrors":   mirrors.EnsureIndexes,
					"sync_logs": syncLogs.EnsureIndexes,
				}
				for name, fn := range ensure {
					if err := fn(ctx); err != nil {
						log.Printf("Failed to ensure %s indexes: %v", name, err)
					}
				}
			}()
			return nil
		},
	})
}

// @title           WooCRM API
// @version         1.0
// @description     CRM backend with WooCommerce synchronization.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			auth.NewUserRepository,
			contact.NewContactRepository,
			product.NewProductRepository,
			order.NewOrderRepository,
			order.NewOrderItemRepository,
			course.NewCourseRepository,
			course.NewTombstoneRepository,
			course.NewEnrollmentRepository,
			tag.NewTagRepository,
			rule.NewRuleRepository,
			woocommerce.NewMirrorRepository,
			woocommerce.NewSyncLogRepository,
			woocommerce.NewSettingsRepository,

			// Initialize Service
			auth.NewAuthService,
			contact.NewContactService,
			product.NewProductService,
			course.NewCourseService,
			order.NewOrderService,
			tag.NewTagService,
			dashboard.NewDashboardService,
			rule.NewActionExecutor,
			rule.NewRuleService,
			importer.NewImportService,
			replica.NewReplicaService,
			system.NewHub,
			woocommerce.NewClient,
			woocommerce.NewCoursePolicy,
			woocommerce.NewSyncService,
			woocommerce.NewScheduler,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(s rule.RuleService) contact.AutomationTrigger { return s },
			func(s rule.RuleService) order.AutomationTrigger { return s },
			func(h *system.Hub) woocommerce.EventSink { return h },

			// Initialize Controller
			auth.NewAuthController,
			contact.NewContactController,
			product.NewProductController,
			order.NewOrderController,
			course.NewCourseController,
			tag.NewTagController,
			dashboard.NewDashboardController,
			rule.NewRuleController,
			importer.NewImportController,
			replica.NewReplicaController,
			system.NewWebSocketController,
			woocommerce.NewWooCommerceController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(contact.NewContactApi),
			AsRoute(product.NewProductAPI),
			AsRoute(order.NewOrderAPI),
			AsRoute(course.NewCourseAPI),
			AsRoute(tag.NewTagAPI),
			AsRoute(dashboard.NewDashboardAPI),
			AsRoute(rule.NewRuleApi),
			AsRoute(importer.NewImportApi),
			AsRoute(replica.NewReplicaApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewWebSocketApi),
			AsRoute(woocommerce.NewWooCommerceAPI),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartScheduler,
			InitializeIndexes,
		),
	)

	app.Run()
}
