package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a partner-candidate account tracked by the checklist.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`   // 'admin', 'manager', 'member'
	Status       string    `json:"status"` // 'active', 'suspended'
	Organization string    `json:"organization"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role constants. The set is closed; anything else is rejected at the boundary.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

// User status constants. Accounts are suspended rather than hard-deleted.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleManager, RoleMember}

// IsValidRole checks if the given role is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Capability names a privileged action checked at the service boundary.
type Capability string

const (
	CapManageUsers   Capability = "manage_users"
	CapManageBackups Capability = "manage_backups"
	CapManageCache   Capability = "manage_cache"
	CapAnswerQA      Capability = "answer_qa"
	CapViewLogs      Capability = "view_logs"
	CapUseAssessment Capability = "use_assessment"
)

// roleCapabilities maps each role to the capabilities it grants.
var roleCapabilities = map[string]map[Capability]bool{
	RoleAdmin: {
		CapManageUsers:   true,
		CapManageBackups: true,
		CapManageCache:   true,
		CapAnswerQA:      true,
		CapViewLogs:      true,
		CapUseAssessment: true,
	},
	RoleManager: {
		CapManageCache:   true,
		CapAnswerQA:      true,
		CapViewLogs:      true,
		CapUseAssessment: true,
	},
	RoleMember: {
		CapUseAssessment: true,
	},
}

// RoleHasCapability reports whether the role grants the capability.
// Unknown roles grant nothing.
func RoleHasCapability(role string, cap Capability) bool {
	return roleCapabilities[role][cap]
}
