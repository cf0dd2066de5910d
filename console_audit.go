package goConsole

import (
	"context"
	"errors"

	"github.com/MrEthical07/goConsole/authapi"
	"github.com/MrEthical07/goConsole/session"
)

const (
	auditEventSessionLoaded = "session_loaded"
	auditEventLoginSuccess  = "login_success"
	auditEventLoginFailure  = "login_failure"
	auditEventLogout        = "logout"
	auditEventAccessDenied  = "access_denied"
)

// AuditErrorCode is the stable error label carried in [AuditEvent.Error].
type AuditErrorCode string

const (
	auditErrStorageUnavailable AuditErrorCode = "storage_unavailable"
	auditErrMalformed          AuditErrorCode = "malformed_session"
	auditErrRoleNotPermitted   AuditErrorCode = "role_not_permitted"
	auditErrLoginRejected      AuditErrorCode = "login_rejected"
	auditErrUpstream           AuditErrorCode = "upstream_unavailable"
	auditErrInvalidResponse    AuditErrorCode = "invalid_response"
	auditErrAccessDenied       AuditErrorCode = "access_denied"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (c *Console) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	user session.User,
	err error,
	mutate func(*AuditEvent),
) {
	if c == nil || c.audit == nil {
		return
	}

	event := AuditEvent{
		EventType: eventType,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Success:   success,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}
	if mutate != nil {
		mutate(&event)
	}

	c.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrStorageUnavailable):
		return auditErrStorageUnavailable
	case errors.Is(err, session.ErrMalformed):
		return auditErrMalformed
	case errors.Is(err, ErrRoleNotPermitted):
		return auditErrRoleNotPermitted
	case errors.Is(err, authapi.ErrLoginRejected):
		return auditErrLoginRejected
	case errors.Is(err, authapi.ErrUnavailable):
		return auditErrUpstream
	case errors.Is(err, authapi.ErrInvalidResponse):
		return auditErrInvalidResponse
	case errors.Is(err, ErrAccessDenied):
		return auditErrAccessDenied
	default:
		return auditErrInternal
	}
}
