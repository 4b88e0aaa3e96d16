package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/qa-api/internal/interfaces/httpserver/handlers"
	v1 "github.com/janhq/qa-api/internal/interfaces/httpserver/routes/v1"
)

// Registrar mounts one API version on the engine.
type Registrar interface {
	Register(engine *gin.Engine)
}

// Provider mounts every API version. Only /v1 exists today.
type Provider struct {
	versions []Registrar
}

func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{versions: []Registrar{v1.NewRoutes(handlerProvider)}}
}

func (p *Provider) Register(engine *gin.Engine) {
	for _, version := range p.versions {
		version.Register(engine)
	}
}
