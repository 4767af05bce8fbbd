package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Simplici0/giftquote/internal/approval"
	"github.com/Simplici0/giftquote/internal/catalog"
	"github.com/Simplici0/giftquote/internal/config"
	"github.com/Simplici0/giftquote/internal/db"
	"github.com/Simplici0/giftquote/internal/document"
	"github.com/Simplici0/giftquote/internal/migrations"
	"github.com/Simplici0/giftquote/internal/notify"
	"github.com/Simplici0/giftquote/internal/seed"
	"github.com/Simplici0/giftquote/internal/storage"
	"github.com/Simplici0/giftquote/internal/store"
)

const devApprovalSecret = "dev-approval-secret"

type server struct {
	quotes       *store.Quotes
	catalog      *catalog.Service
	catalogStore *store.Catalog
	docs         document.Generator
	files        storage.Store
	notifier     notify.Notifier
	signer       *approval.Signer
	baseURL      string
	managerEmail string
	newID        func() string
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, cfg.DBDriver, cfg.MigrationsDir); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
		stats, err := seed.Run(ctx, database, cfg.DBDriver)
		if err != nil {
			log.Fatalf("failed to seed catalog: %v", err)
		}
		log.Printf("seed: %d inserted, %d already present", stats.Inserts, stats.Skipped)
	}

	var files storage.Store
	if cfg.UsesS3() {
		files, err = storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	} else {
		files, err = storage.NewDirStore(cfg.StorageDir, cfg.PublicBaseURL+"/files")
	}
	if err != nil {
		log.Fatalf("failed to set up document storage: %v", err)
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.EmailAPIKey != "" {
		notifier = notify.NewEmailAPI(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailFrom)
	}

	secret := cfg.ApprovalSecret
	if secret == "" && cfg.IsDev() {
		secret = devApprovalSecret
	}
	signer, err := approval.NewSigner(secret, cfg.ApprovalTTL)
	if err != nil {
		log.Fatalf("failed to create approval signer: %v", err)
	}

	catalogStore := store.NewCatalog(database, cfg.DBDriver)
	srv := &server{
		quotes:       store.NewQuotes(database, cfg.DBDriver),
		catalog:      catalog.NewService(catalogStore, cfg.CatalogTTL, nil),
		catalogStore: catalogStore,
		docs:         document.NewPDFGenerator(cfg.FontDir),
		files:        files,
		notifier:     notifier,
		signer:       signer,
		baseURL:      cfg.PublicBaseURL,
		managerEmail: cfg.ManagerEmail,
		newID:        uuid.NewString,
	}

	r := srv.routes()
	if !cfg.UsesS3() && cfg.IsDev() {
		r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(cfg.StorageDir))))
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("listening on %s", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)

	r.Get("/catalog/products", s.handleCatalogProducts)
	r.Get("/catalog/bundles", s.handleCatalogBundles)
	r.Post("/catalog/refresh", s.handleCatalogRefresh)
	r.Post("/catalog/import", s.handleCatalogImport)

	r.Get("/quotes", s.handleQuotesList)
	r.Post("/quotes", s.handleQuoteCreate)
	r.Route("/quotes/{id}", func(r chi.Router) {
		r.Get("/", s.handleQuoteGet)
		r.Put("/", s.handleQuoteUpdate)
		r.Post("/compute", s.handleQuoteCompute)
		r.Get("/pdf", s.handleQuotePDF)
		r.Post("/submit", s.handleQuoteSubmit)
		r.Post("/send", s.handleQuoteSend)

		r.Post("/options", s.handleOptionAdd)
		r.Post("/options/{optionID}/duplicate", s.handleOptionDuplicate)
		r.Delete("/options/{optionID}", s.handleOptionDelete)
		r.Post("/options/{optionID}/drop", s.handleOptionDrop)
		r.Post("/options/{optionID}/items/move", s.handleItemsMove)
		r.Post("/options/{optionID}/items/custom", s.handleItemsCustom)
		r.Post("/options/{optionID}/items/{itemID}/duplicate", s.handleItemDuplicate)
		r.Delete("/options/{optionID}/items/{itemID}", s.handleItemDelete)
	})

	r.Post("/approval/manager", s.handleManagerDecision)
	r.Get("/approval/customer", s.handleCustomerView)
	r.Post("/approval/customer", s.handleCustomerApprove)
	r.Post("/approval/customer/reject", s.handleCustomerReject)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
