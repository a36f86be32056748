package middleware

import (
	"net/http"
	"strings"

	"salon-booking/internal/data/repository"
	"salon-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthSession resolves the bearer session token and stores the account and its
// tenant in the request context.
func AuthSession(sessionRepo repository.SessionRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, raw, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			token, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			session, err := sessionRepo.FindValidSession(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseServiceUnavailable(w, "Session store unavailable")
				return
			}

			if session == nil {
				logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetUserContext(r.Context(), session.UserID, session.TenantID)
			ctx = utils.SetTokenContext(ctx, token.String())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TenantOwner re-checks that the authenticated account owns the tenant in context.
// Administrative handlers only ever act on that tenant.
func TenantOwner(tenantRepo repository.TenantRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}
			tenantID, ok := utils.GetTenantIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			tenant, err := tenantRepo.FindByID(r.Context(), tenantID)
			if err != nil {
				logger.Error("Tenant check: failed to get tenant",
					zap.Error(err), zap.String("tenant_id", tenantID.String()))
				utils.ResponseServiceUnavailable(w, "Tenant store unavailable")
				return
			}

			if tenant == nil || tenant.OwnerUserID != userID {
				logger.Warn("Tenant check: account does not own tenant",
					zap.String("user_id", userID.String()),
					zap.String("tenant_id", tenantID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
