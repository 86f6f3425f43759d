package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nexbuy/backend/internal/config"
	"github.com/nexbuy/backend/internal/es"
	"github.com/nexbuy/backend/internal/handlers"
	"github.com/nexbuy/backend/internal/handlers/cart"
	"github.com/nexbuy/backend/internal/logging"
	"github.com/nexbuy/backend/internal/mykafka"
	"github.com/nexbuy/backend/internal/order"
	"github.com/nexbuy/backend/internal/review"
	"github.com/nexbuy/backend/internal/service/token"
	httpserver "github.com/nexbuy/backend/internal/transport/http"
)

const productIndex = "products"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		topics := []string{"user_events", "product_events", "cart_events", "order_events", "review_events"}
		if err := mykafka.EnsureTopics(configuration.KAFKA_ADDRESS, topics...); err != nil {
			log.Printf("kafka topic bootstrap error: %v", err)
		}
		producer, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("KAFKA_ADDRESS not set, event publishing disabled")
	}

	searchHandler := handlers.NewSearchHandler(nil, productIndex)
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		searchHandler = handlers.NewSearchHandler(esClient, productIndex)
	} else {
		log.Println("ES_URL not set, search disabled")
	}

	workflow := order.NewWorkflow(db)
	aggregator := review.NewAggregator(db)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, SecureCookies: configuration.SECURE_COOKIES, Producer: producer},
		ProductHandler:  &handlers.ProductHandler{DB: db},
		CartHandler:     &cart.CartHandler{DB: db, Producer: producer},
		OrderHandler:    &handlers.OrderHandler{DB: db, Workflow: workflow, Producer: producer},
		ReviewHandler:   &handlers.ReviewHandler{DB: db, Aggregator: aggregator, Producer: producer},
		WishlistHandler: &handlers.WishlistHandler{DB: db},
		AdminHandler:    &handlers.AdminHandler{DB: db, Workflow: workflow, Producer: producer, ES: searchHandler.ES, Index: productIndex},
		SearchHandler:   searchHandler,
		TokenService:    &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, SecureCookies: configuration.SECURE_COOKIES},

		SecureCookies: configuration.SECURE_COOKIES,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
