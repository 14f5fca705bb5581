// Package app contains the application setup for the inventory session.
package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/abgdnv/inventory/internal/config"
	"github.com/abgdnv/inventory/internal/product/handler"
	"github.com/abgdnv/inventory/internal/product/service"
	"github.com/abgdnv/inventory/internal/product/store"
	"github.com/google/uuid"
)

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
	Currency       string
}

// SetupDependencies prepares the data directory and loads the product list.
func SetupDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	logger = logger.With("session_id", uuid.NewString())

	repo, err := newStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	pService := service.NewService(repo, logger)
	if err := pService.Load(); err != nil {
		return nil, err
	}

	return &Dependencies{
		ProductService: pService,
		Logger:         logger,
		Currency:       cfg.Shell.Currency,
	}, nil
}

// Run drives the interactive shell and persists the product list once it ends.
func Run(deps *Dependencies, in io.Reader, out io.Writer) error {
	shell := handler.NewShell(deps.ProductService, in, out, deps.Currency, deps.Logger)
	if err := shell.Run(); err != nil {
		return fmt.Errorf("session aborted: %w", err)
	}
	return deps.ProductService.Save()
}

// newStore returns the file-backed store, or for a dry run an in-memory copy of the data file
// so that nothing is written on exit.
func newStore(cfg *config.Config, logger *slog.Logger) (store.ProductStore, error) {
	path := cfg.Path()
	if cfg.Data.DryRun {
		products, err := store.Load(path)
		if err != nil {
			return nil, err
		}
		logger.Info("Dry run, changes will not be saved", "path", path, "count", len(products))
		return store.NewInMemoryStore(products...), nil
	}

	if err := store.EnsureDirectory(cfg.Data.Dir); err != nil {
		return nil, err
	}
	logger.Info("Using data file", "path", path)
	return store.NewFileStore(path), nil
}
