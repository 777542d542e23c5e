package httpserver

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	campaignapp "funded/contexts/fundraising/campaign-service/application"
	accountapp "funded/contexts/identity-access/account-service/application"
	accounterrors "funded/contexts/identity-access/account-service/domain/errors"
	adminapp "funded/contexts/internal-ops/admin-dashboard-service/application"
	"funded/internal/platform/metrics"
	"funded/internal/platform/ratelimit"
)

// The upstream gateway authenticates users and asserts the account id in
// X-User-Id. The server only resolves that id against the account store.
const userIDHeader = "X-User-Id"

func (s *Server) resolveActor(r *http.Request) (accountapp.Actor, error) {
	return s.accounts.Actors.Execute(r.Context(), r.Header.Get(userIDHeader))
}

// requireActor writes 401 and returns false for anonymous or stale identities.
func (s *Server) requireActor(w http.ResponseWriter, r *http.Request) (accountapp.Actor, bool) {
	actor, err := s.resolveActor(r)
	if err != nil {
		if errors.Is(err, accounterrors.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
			return accountapp.Actor{}, false
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return accountapp.Actor{}, false
	}
	if !actor.Authenticated() {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return accountapp.Actor{}, false
	}
	return actor, true
}

// optionalActor treats an unresolvable identity as anonymous.
func (s *Server) optionalActor(r *http.Request) accountapp.Actor {
	actor, err := s.resolveActor(r)
	if err != nil {
		s.logger.Debug("caller identity ignored",
			"event", "http_optional_actor_ignored",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err.Error(),
		)
		return accountapp.Actor{}
	}
	return actor
}

func campaignActor(actor accountapp.Actor) campaignapp.Actor {
	return campaignapp.Actor{
		UserID:          actor.UserID,
		Email:           actor.Email,
		IsAdmin:         actor.IsAdmin(),
		IsStudent:       actor.IsStudent(),
		StudentVerified: actor.StudentVerified,
	}
}

func adminCaller(actor accountapp.Actor) adminapp.Caller {
	return adminapp.Caller{UserID: actor.UserID, IsAdmin: actor.IsAdmin()}
}

// recordAudit appends the admin mutation to the audit trail. The mutation has
// already committed, so a failure here is logged and not surfaced.
func (s *Server) recordAudit(r *http.Request, actor accountapp.Actor, action string, targetID string, justification string) {
	requestID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
	if strings.TrimSpace(justification) == "" {
		justification = action
	}
	_, err := s.admin.Handler.RecordAdminActionHandler(r.Context(), requestID, adminapp.RecordActionInput{
		ActorID:       actor.UserID,
		Action:        action,
		TargetID:      targetID,
		Justification: justification,
		SourceIP:      s.clientIP(r),
		CorrelationID: requestID,
	})
	if err != nil {
		s.logger.Warn("admin audit append failed",
			"event", "http_admin_audit_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"action", action,
			"target_id", targetID,
			"error", err.Error(),
		)
	}
}

// rateLimited rejects clients that exhausted their bucket with 429 and a
// Retry-After hint in whole seconds.
func (s *Server) rateLimited(name string, limiter *ratelimit.PerClientLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, wait := limiter.Allow(s.clientIP(r))
		if !allowed {
			metrics.RateLimitedTotal.WithLabelValues(name).Inc()
			retryAfter := int(math.Ceil(wait.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
