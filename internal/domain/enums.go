package domain

// ProfileSection names a top-level grouping of identity profile data.
// SectionAll is used by history entries for whole-document writes.
type ProfileSection string

const (
	SectionBiographical       ProfileSection = "biographical"
	SectionPersonalityProfile ProfileSection = "personality_profile"
	SectionMeta               ProfileSection = "meta"
	SectionAll                ProfileSection = "all"
)

func (s ProfileSection) String() string { return string(s) }

func (s ProfileSection) IsValid() bool {
	switch s {
	case SectionBiographical, SectionPersonalityProfile, SectionMeta, SectionAll:
		return true
	}
	return false
}

// IsEditable reports whether users may write the section directly.
// Meta is maintained by the system.
func (s ProfileSection) IsEditable() bool {
	return s == SectionBiographical || s == SectionPersonalityProfile
}

// DocumentSections returns the three sections of a profile document in
// their canonical order.
func DocumentSections() []ProfileSection {
	return []ProfileSection{SectionBiographical, SectionPersonalityProfile, SectionMeta}
}

// EntityType identifies the kind of domain entity (used in audit logs).
type EntityType string

const (
	EntityTypeIdentityProfile EntityType = "IDENTITY_PROFILE"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	return e == EntityTypeIdentityProfile
}

// AuditAction represents the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreate  AuditAction = "CREATE"
	AuditActionUpdate  AuditAction = "UPDATE"
	AuditActionRestore AuditAction = "RESTORE"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionRestore:
		return true
	}
	return false
}

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}
