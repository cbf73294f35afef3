// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/coinjecture/core/app/services/coreapi/handlers/v1/coregrp"
	"github.com/coinjecture/core/foundation/events"
	"github.com/coinjecture/core/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log  *zap.SugaredLogger
	Evts *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	cgh := coregrp.Handlers{
		Log:  cfg.Log,
		Evts: cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", cgh.Events)
	app.Handle(http.MethodGet, version, "/version", cgh.Version)
	app.Handle(http.MethodGet, version, "/tiers", cgh.Tiers)
	app.Handle(http.MethodGet, version, "/genesis", cgh.Genesis)
	app.Handle(http.MethodGet, version, "/vectors/check", cgh.Vectors)
	app.Handle(http.MethodPost, version, "/hash", cgh.Hash)
	app.Handle(http.MethodPost, version, "/merkle/root", cgh.MerkleRoot)
	app.Handle(http.MethodPost, version, "/merkle/proof", cgh.MerkleProof)
	app.Handle(http.MethodPost, version, "/header/hash", cgh.HeaderHash)
	app.Handle(http.MethodPost, version, "/header/decode", cgh.HeaderDecode)
	app.Handle(http.MethodPost, version, "/header/successor", cgh.ValidateSuccessor)
	app.Handle(http.MethodPost, version, "/verify", cgh.Verify)
}
