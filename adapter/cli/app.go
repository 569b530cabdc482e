package cli

import (
	"fmt"

	"github.com/felixgeelhaar/weekplan/internal/dashboard/store"
	"github.com/felixgeelhaar/weekplan/internal/dashboard/sync"
	"github.com/felixgeelhaar/weekplan/pkg/config"
)

// App holds the CLI client dependencies.
type App struct {
	Engine *sync.Engine
	Store  *store.Store
	Config *config.Config
}

var app *App

// SetApp installs the client container built in main.
func SetApp(a *App) {
	app = a
}

// GetApp returns the client container, or nil when it was not built.
func GetApp() *App {
	return app
}

func requireApp() (*App, error) {
	if app == nil || app.Engine == nil {
		return nil, fmt.Errorf("no server configured: set WEEKPLAN_SERVER_URL and WEEKPLAN_TOKEN")
	}
	return app, nil
}
