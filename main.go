package main

import (
	analysis "Certus/internal/analysis"
	allowables "Certus/internal/allowables"
	auth "Certus/internal/auth"
	mapping "Certus/internal/mapping"
	repo "Certus/internal/repo"
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func HandleList(router *mux.Router, db *sql.DB) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, relying on process environment")
	}

	registry, err := allowables.LoadFileOrDefault(os.Getenv("REGISTRY_FILE"))
	if err != nil {
		log.Fatal("allowable registry unreadable:", err)
	}

	service := &analysis.Service{
		Registry:    registry,
		Mapping:     mapping.LoadOrDemo(os.Getenv("MAPPING_FILE")),
		WorkbookDir: envOr("WORKBOOK_DIR", "inputs/excel"),
		ResultsDir:  envOr("RESULTS_DIR", "results"),
	}
	analysisH := &analysis.Handler{Service: service}

	router.HandleFunc("/", analysisH.Home).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	limiter := auth.NewIPRateLimiter(1, 3)
	api.Use(limiter.LimitMiddleware)

	secureApi := api.PathPrefix("/analysis").Subrouter()

	if db != nil {
		tokenKey := os.Getenv("TOKEN_KEY")
		if tokenKey == "" {
			log.Fatal("TOKEN_KEY environment variable is not set")
		}
		runRepo := repo.NewPostgresDB(db)
		service.Repo = runRepo

		authEnv := &auth.Authenv{JWTkey: []byte(tokenKey), Repo: runRepo}
		api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
		api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
		secureApi.Use(authEnv.AuthMiddleware)
	} else {
		log.Println("no database: auth and run persistence disabled")
	}

	secureApi.HandleFunc("/upload/dat", analysisH.UploadMapping).Methods("POST")
	secureApi.HandleFunc("/upload/extract", analysisH.UploadDataset).Methods("POST")
	secureApi.HandleFunc("/analyze", analysisH.Analyze).Methods("POST")
	secureApi.HandleFunc("/report/chapters", analysisH.Chapters).Methods("POST")
	secureApi.HandleFunc("/runs", analysisH.ListRuns).Methods("GET")
	secureApi.HandleFunc("/runs/{id}", analysisH.GetRun).Methods("GET")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db := auth.InitDB()
	if db != nil {
		defer db.Close()
	}

	router := mux.NewRouter()
	HandleList(router, db)
	handler := CORS(router)

	addr := envOr("LISTEN_ADDR", ":8000")
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	log.Println("Starting server on", addr)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Shutdown signal received!")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")

	wg.Wait()
}
