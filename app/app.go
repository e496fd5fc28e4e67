package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"aynext-storefront/app/controller"
	"aynext-storefront/app/router"
	"aynext-storefront/config"
	"aynext-storefront/service"
)

// Initialize wires the storefront services and returns the HTTP handler
func Initialize(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	remover := service.NewRemoveBgService(cfg.RemoveBgURL, cfg.RemoveBgAPIKey, cfg.RemoveBgTimeout)
	if remover.IsConfigured() {
		log.Printf("✓ Background removal enabled")
	} else {
		log.Printf("⚠️  REMOVE_BG_API_KEY is not set, logos are used without background removal")
	}

	mockups, err := newMockupSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	previews := service.NewPreviewStore()
	customizer := service.NewCustomizerService(remover, previews, mockups)
	sessions := service.NewSessionService()
	notifier := service.NewFlashNotifier()
	orders := service.NewOrderService(service.NewOrderClient(cfg.APIBaseURL, cfg.OrderAPITimeout), notifier)

	go startEviction(ctx, cfg, customizer, sessions, notifier)

	visitors := controller.VisitorCookies{Secure: cfg.CookieSecure}

	// Create controllers
	controllers := &router.Controllers{
		Page:       controller.NewPageController(sessions, visitors, cfg.OAuthAuthorizeURL),
		Auth:       controller.NewAuthController(sessions, customizer, visitors),
		Customizer: controller.NewCustomizerController(customizer, orders, sessions, notifier, visitors),
	}

	return router.SetupRoutes(controllers), nil
}

// newMockupSource uses Drive mockups when configured, generated ones otherwise
// A configured Drive folder that cannot be reached is a startup error
func newMockupSource(ctx context.Context, cfg *config.Config) (service.MockupSourceInterface, error) {
	generated := service.GeneratedMockupService{}
	if cfg.MockupDriveFolderID == "" || cfg.GoogleCredentialsPath == "" {
		return generated, nil
	}

	drive, err := service.NewDriveMockupService(ctx, cfg.GoogleCredentialsPath, cfg.MockupDriveFolderID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Drive mockups: %w", err)
	}
	log.Printf("✓ Drive mockups enabled (folder %s)", cfg.MockupDriveFolderID)
	return service.NewFallbackMockupService(drive, generated), nil
}

// startEviction reclaims idle customizers and expired sessions until ctx is done
func startEviction(ctx context.Context, cfg *config.Config, customizer *service.CustomizerService, sessions *service.SessionService, notifier *service.FlashNotifier) {
	interval := cfg.EvictionInterval
	if interval <= 0 {
		interval = time.Minute
	}
	idle := cfg.CustomizerIdleTimeout
	if idle <= 0 {
		idle = 30 * time.Minute
	}

	if cfg.SessionTTL > 0 {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					sessions.Expire(cfg.SessionTTL)
				}
			}
		}()
	}

	customizer.RunEviction(ctx, interval, idle, notifier.Forget)
}
