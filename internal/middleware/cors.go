package middleware

import (
	"net/http"

	"github.com/questx-lab/spinwin/internal/common"
	"github.com/rs/cors"
)

func AllowCors(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", common.SessionIDHeader},
		ExposedHeaders:   []string{common.SessionIDHeader, "Content-Disposition"},
		AllowCredentials: true,
	}).Handler
}
