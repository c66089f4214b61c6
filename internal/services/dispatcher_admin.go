package services

import (
	"fmt"
	"time"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
)

// Audit actions.
const (
	auditUpdateUser    = "UPDATE_USER"
	auditSendBroadcast = "SEND_BROADCAST"
	auditUpdateConfig  = "UPDATE_CONFIG"
)

func (d *dispatcher) applyAdmin(tx dto.AdminTx, actor dto.Actor, ev dto.Event, now time.Time) (string, error) {
	var (
		entityID string
		audit    *models.AuditLog
		err      error
	)
	switch p := ev.Payload.(type) {
	case *dto.AdminUpdateUserPayload:
		entityID, audit, err = d.adminUpdateUser(tx, actor, p, now)
	case *dto.AdminSendBroadcastPayload:
		entityID, audit, err = d.adminSendBroadcast(tx, actor, p, now)
	case *dto.AdminUpdateConfigPayload:
		entityID, audit, err = d.adminUpdateConfig(tx, actor, p, now)
	default:
		return "", errs.NewValidationError(fmt.Sprintf("unsupported admin event type: %s", ev.Type))
	}
	if err != nil {
		return "", err
	}

	audit.ID = d.newID()
	audit.AdminID = actor.UID
	audit.CreatedAt = now
	return entityID, tx.AppendAudit(audit)
}

func (d *dispatcher) adminUpdateUser(tx dto.AdminTx, actor dto.Actor, p *dto.AdminUpdateUserPayload, now time.Time) (string, *models.AuditLog, error) {
	u, err := tx.GetUser(p.TargetUID)
	if err != nil {
		return "", nil, err
	}
	if p.TargetUID == actor.UID && p.Role != nil && *p.Role != models.RoleAdmin {
		return "", nil, errs.NewValidationError("admins cannot remove their own admin role")
	}

	details := map[string]any{}
	if p.Status != nil {
		details["status"] = map[string]any{"from": u.Status, "to": *p.Status}
		u.Status = *p.Status
	}
	if p.Role != nil {
		details["role"] = map[string]any{"from": string(u.Role), "to": string(*p.Role)}
		u.Role = *p.Role
	}
	if p.SubscriptionStatus != nil {
		details["subscriptionStatus"] = map[string]any{"from": u.SubscriptionStatus, "to": *p.SubscriptionStatus}
		u.SubscriptionStatus = *p.SubscriptionStatus
	}
	touch(&u.Version, &u.UpdatedAt, now)

	if err := tx.PutUser(u); err != nil {
		return "", nil, err
	}
	return u.UID, &models.AuditLog{Action: auditUpdateUser, TargetUserID: u.UID, Details: details}, nil
}

// adminSendBroadcast notifies one user, or records a single announcement when
// no target is given. There is no fan-out to every user.
func (d *dispatcher) adminSendBroadcast(tx dto.AdminTx, actor dto.Actor, p *dto.AdminSendBroadcastPayload, now time.Time) (string, *models.AuditLog, error) {
	details := map[string]any{"title": p.Title}

	if p.TargetUID != "" {
		if _, err := tx.GetUser(p.TargetUID); err != nil {
			return "", nil, err
		}
		n := d.notification(models.NotificationBroadcast, p.Title, p.Body, now)
		if err := tx.PutUserNotification(p.TargetUID, n); err != nil {
			return "", nil, err
		}
		return n.ID, &models.AuditLog{Action: auditSendBroadcast, TargetUserID: p.TargetUID, Details: details}, nil
	}

	a := &models.Announcement{
		ID:        d.newID(),
		AdminID:   actor.UID,
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: now,
	}
	if err := tx.PutAnnouncement(a); err != nil {
		return "", nil, err
	}
	details["announcementId"] = a.ID
	return a.ID, &models.AuditLog{Action: auditSendBroadcast, Details: details}, nil
}

func (d *dispatcher) adminUpdateConfig(tx dto.AdminTx, actor dto.Actor, p *dto.AdminUpdateConfigPayload, now time.Time) (string, *models.AuditLog, error) {
	c, err := tx.GetConfig()
	if err != nil {
		return "", nil, err
	}

	details := map[string]any{}
	if p.DefaultAportePercent != nil {
		details["defaultAportePercent"] = *p.DefaultAportePercent
		c.DefaultAportePercent = *p.DefaultAportePercent
	}
	if p.MaintenanceMode != nil {
		details["maintenanceMode"] = *p.MaintenanceMode
		c.MaintenanceMode = *p.MaintenanceMode
	}
	c.UpdatedBy = actor.UID
	touch(&c.Version, &c.UpdatedAt, now)

	if err := tx.PutConfig(c); err != nil {
		return "", nil, err
	}
	return "config", &models.AuditLog{Action: auditUpdateConfig, Details: details}, nil
}
