package main

import (
	"fmt"
	"log"
	"time"

	"florist/internal/config"
	"florist/internal/handlers"
	"florist/internal/models"
	"florist/internal/repositories"
	"florist/internal/services"
	"florist/internal/shop"
	"florist/pkg/natsbus"
	"florist/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// application holds the wired services and the external connections that
// must be closed on shutdown.
type application struct {
	services handlers.Services
	products repositories.ProductRepository

	mq    *rabbitmq.Client
	bus   *natsbus.Bus
	mongo *repositories.MongoNotificationRepository
}

// newApplication builds repositories and services. RabbitMQ, NATS and
// MongoDB are only dialed when configured.
func newApplication(cfg *config.Config, db *gorm.DB) (*application, error) {
	a := &application{}

	var notificationRepo repositories.NotificationRepository = repositories.NewGORMNotificationRepository(db)
	if cfg.Notification.Store == "mongo" {
		mongoRepo, err := repositories.NewMongoNotificationRepository(cfg.Notification.MongoURI, cfg.Notification.MongoDB)
		if err != nil {
			return nil, err
		}
		a.mongo = mongoRepo
		notificationRepo = mongoRepo
	}

	var events services.OrderEventPublisher
	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:         cfg.RabbitMQ.URL,
			OrderQueue:  cfg.RabbitMQ.OrderQueue,
			StatusQueue: cfg.RabbitMQ.StatusQueue,
		})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		a.mq = mq
		events = mq
	} else {
		log.Println("RABBITMQ_URL not set, order events will not be published")
	}

	var publisher services.NotificationPublisher
	if cfg.NATS.URL != "" {
		bus, err := natsbus.Connect(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			a.close()
			return nil, err
		}
		a.bus = bus
		publisher = bus
	}

	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	addressRepo := repositories.NewGORMAddressRepository(db)

	registry := services.NewSessionRegistry(orderRepo, notificationRepo, shop.Options{
		DeliveryFee: cfg.Shop.DeliveryFee,
	})
	notifications := services.NewNotificationService(registry, notificationRepo, publisher)

	a.products = productRepo
	a.services = handlers.Services{
		Auth: services.NewAuthService(
			repositories.NewGORMUserRepository(db),
			repositories.NewGORMSessionRepository(db),
			repositories.NewGORMOTPRepository(db),
			services.AuthConfig{
				JWTSecret:      cfg.Server.JWTSecret,
				TokenDuration:  time.Duration(cfg.Server.JWTExpirationHours) * time.Hour,
				OTPTTL:         cfg.Server.OTPTTL,
				OperatorEmails: cfg.Server.OperatorEmails,
			},
		),
		Products:      services.NewProductService(productRepo),
		Carts:         services.NewCartService(registry, productRepo),
		Addresses:     services.NewAddressService(addressRepo),
		Checkout:      services.NewCheckoutService(registry, addressRepo, repositories.NewStaticPaymentProvider(), orderRepo, notifications, events),
		Orders:        services.NewOrderService(registry, orderRepo, notifications, events),
		Notifications: notifications,
	}
	return a, nil
}

// startConsumers subscribes to the status queue and the notification bus.
func (a *application) startConsumers() error {
	if a.mq != nil {
		log.Println("Starting RabbitMQ consumer for order status updates...")
		if err := a.mq.ConsumeStatusUpdates(a.services.Orders.HandleStatusUpdate); err != nil {
			return fmt.Errorf("failed to start RabbitMQ consumer: %w", err)
		}
	}
	if a.bus != nil {
		if err := a.bus.Subscribe(a.services.Notifications.MergeRemote); err != nil {
			return err
		}
	}
	return nil
}

func (a *application) close() {
	if a.bus != nil {
		a.bus.Close()
	}
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			log.Printf("Error closing RabbitMQ connection: %v", err)
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Close(); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}
}

// buildApp creates the Fiber app with middleware, API routes and the health
// check.
func buildApp(a *application) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "florist",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitmq": connectedState(a.mq != nil),
			"nats":     connectedState(a.bus != nil),
		})
	})

	handlers.RegisterRoutes(app, a.services)
	return app
}

func connectedState(on bool) string {
	if on {
		return "connected"
	}
	return "disabled"
}

// seedCatalog populates an empty catalog with the store's flowers.
func seedCatalog(repo repositories.ProductRepository) error {
	existing, err := repo.GetAll()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	products := []models.Product{
		{Name: "Red Roses", Category: "bouquet", Price: 50000, Image: "/images/red-roses.jpg", Description: "A dozen long-stem red roses."},
		{Name: "Tulip Bunch", Category: "bouquet", Price: 30000, Image: "/images/tulips.jpg", Description: "Seasonal tulips in mixed colors."},
		{Name: "White Lilies", Category: "vase", Price: 45000, Image: "/images/lilies.jpg", Description: "Oriental lilies arranged in a glass vase."},
		{Name: "Sunflower Basket", Category: "basket", Price: 65000, Image: "/images/sunflowers.jpg", Description: "Sunflowers and greenery in a woven basket."},
		{Name: "Orchid Pot", Category: "plant", Price: 120000, Image: "/images/orchid.jpg", Description: "A white phalaenopsis orchid in a ceramic pot."},
		{Name: "Pastel Peonies", Category: "bouquet", Price: 95000, Image: "/images/peonies.jpg", Description: "Soft pink peonies wrapped in kraft paper."},
	}
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			return fmt.Errorf("error seeding product %s: %w", products[i].Name, err)
		}
		log.Printf("Seeded product: %s (ID: %d)", products[i].Name, products[i].ID)
	}
	return nil
}
