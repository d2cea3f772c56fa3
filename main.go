package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"kirana/admin"
	"kirana/auth"
	"kirana/cart"
	"kirana/checkout"
	"kirana/live"
	"kirana/livequery"
	"kirana/orders"
	"kirana/products"
	"kirana/ratelim"
	"kirana/routes"
	"kirana/store"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s in %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(st store.Store, hub *livequery.Hub, rateLimiter *ratelim.RateLimiter) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	cartMutator := &cart.Mutator{Store: st}
	cartHandler := &cart.Handler{Mutator: cartMutator}
	checkoutHandler := &checkout.Handler{
		Sequencer: checkout.NewSequencer(st),
		Cart:      cartMutator,
	}

	routes.AddAuthRoutes(router, rateLimiter, &auth.Handler{Store: st})
	routes.AddProductRoutes(router, &products.Handler{Store: st})
	routes.AddCartRoutes(router, cartHandler, checkoutHandler)
	routes.AddOrderRoutes(router, &orders.Handler{Store: st})
	routes.AddAdminRoutes(router, &admin.Handler{Store: st})
	routes.AddLiveRoutes(router, &live.Handler{Hub: hub, Store: st})

	router.ServeFiles("/productpic/*filepath", http.Dir("./static/productpic"))

	return router
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	hub := livequery.NewHub()
	go hub.Run()
	go livequery.RunBusWorker(hub)

	st := store.NewMongo(livequery.Bus{})

	rateLimiter := ratelim.NewRateLimiter()
	router := setupRouter(st, hub, rateLimiter)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := securityHeaders(loggingMiddleware(c.Handler(router)))

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("Server started on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
