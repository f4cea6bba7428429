package web

import (
	"time"

	"github.com/amirhossein5/facestore/internal/web/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/websocket"
)

// uploadTimeout bounds a single upload including face detection.
const uploadTimeout = 2 * time.Minute

func (s *Server) setupRoutes() {
	facesHandler := handlers.NewFacesHandler(
		s.store,
		s.encoder,
		s.config.Uploads.KnownDir(),
		s.config.Uploads.UnknownDir(),
		s.config.Server.MaxUploadSize,
		s.log,
	)
	apiHandler := handlers.NewAPIHandler(s.store, s.log)
	liveHandler := handlers.NewLiveHandler(s.store, s.encoder, s.config.Uploads.LiveDir(), s.log)

	s.router.Get("/api/health", handlers.HealthCheck)

	s.router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(uploadTimeout))

		r.Get("/", facesHandler.Index)
		r.Get("/upload_known", facesHandler.UploadKnownForm)
		r.Post("/upload_known", facesHandler.UploadKnown)
		r.Get("/upload_unknown", facesHandler.UploadUnknownForm)
		r.Post("/upload_unknown", facesHandler.UploadUnknown)

		r.Get("/api/faces", apiHandler.ListFaces)
		r.Get("/api/sightings", apiHandler.ListSightings)
	})

	s.router.Handle("/ws/identify", websocket.Handler(liveHandler.Identify))
	s.router.Get("/stream", liveHandler.Stream)
}
