package authorize

import (
	"fmt"
	"regexp"
)

type Action string
type Resource string
type Role string
type Domain string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// Power actions
	ActionManage  Action = "manage"  // CRUD + list
	ActionExecute Action = "execute" // run, trigger, dispatch

	// Lifecycle actions
	ActionAcknowledge Action = "acknowledge"
	ActionResolve     Action = "resolve"

	// RBAC-specific actions
	ActionGrant  Action = "grant"
	ActionRevoke Action = "revoke"
)

const (
	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
	ActionManage: {}, ActionExecute: {},
	ActionAcknowledge: {}, ActionResolve: {},
	ActionGrant: {}, ActionRevoke: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	// Identity / auth
	ResourceUser        Resource = "user"
	ResourceAuthSession Resource = "auth_session"

	// Counseling records
	ResourceConsultation        Resource = "consultation"
	ResourceConsultationMessage Resource = "consultation_message"
	ResourceBehaviorRecord      Resource = "behavior_record"
	ResourceSchedule            Resource = "schedule"

	// Psychology tests
	ResourceTestTemplate Resource = "test_template"
	ResourceTestSession  Resource = "test_session"

	// Communication
	ResourceForumTopic       Resource = "forum_topic"
	ResourceNotification     Resource = "notification"
	ResourceWhatsAppTemplate Resource = "whatsapp_template"
	ResourceWhatsAppDispatch Resource = "whatsapp_dispatch"
	ResourceAssistant        Resource = "assistant"

	// System / platform admin
	ResourceSystem Resource = "system"
	ResourceAudit  Resource = "audit"
	ResourceRBAC   Resource = "rbac"
)

var KnownResources = map[Resource]struct{}{
	ResourceUser: {}, ResourceAuthSession: {},
	ResourceConsultation: {}, ResourceConsultationMessage: {},
	ResourceBehaviorRecord: {}, ResourceSchedule: {},
	ResourceTestTemplate: {}, ResourceTestSession: {},
	ResourceForumTopic: {}, ResourceNotification: {},
	ResourceWhatsAppTemplate: {}, ResourceWhatsAppDispatch: {}, ResourceAssistant: {},
	ResourceSystem: {}, ResourceAudit: {}, ResourceRBAC: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// These are the "policy subjects" we assign to users via grouping policies.

const (
	WildcardRole Role = "*"

	// Platform role (domain = sys)
	RoleSysSuperAdmin Role = "role:sys:superadmin"

	// School roles (domain = school)
	RoleSchoolAdmin     Role = "role:school:admin"
	RoleSchoolCounselor Role = "role:school:counselor" // guru BK
	RoleSchoolStudent   Role = "role:school:student"

	// Private user scope (domain = user:<uuid>)
	RoleUserSelf Role = "role:user:self"
)

var KnownRoles = map[Role]struct{}{
	RoleSysSuperAdmin:   {},
	RoleSchoolAdmin:     {},
	RoleSchoolCounselor: {},
	RoleSchoolStudent:   {},
	RoleUserSelf:        {},
}

// Indonesian display names
var RoleDisplayNamesID = map[Role]string{
	RoleSysSuperAdmin:   "Superadmin Platform",
	RoleSchoolAdmin:     "Admin Sekolah",
	RoleSchoolCounselor: "Guru BK",
	RoleSchoolStudent:   "Siswa",
	RoleUserSelf:        "Pengguna Sendiri",
}

// Profile role strings (stored in the profiles collection role column)
const (
	ProfileRoleAdmin     = "admin"
	ProfileRoleCounselor = "counselor"
	ProfileRoleStudent   = "student"
)

// ProfileRoleToRBACRole maps stored role values to Casbin roles
var ProfileRoleToRBACRole = map[string]Role{
	ProfileRoleAdmin:     RoleSchoolAdmin,
	ProfileRoleCounselor: RoleSchoolCounselor,
	ProfileRoleStudent:   RoleSchoolStudent,
}

// ----------------------------
// Domains
// ----------------------------

const (
	DomainSys    Domain = "sys"
	DomainSchool Domain = "school"
)

// Domain prefixes (for exact domains we generate per entity)
const (
	DomainPrefixUser Domain = "user:"
)

const (
	WildcardDomain Domain = "*"
)

var (
	reUUID = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)
)

func UserDomain(userID string) Domain {
	return Domain(fmt.Sprintf("%s%s", DomainPrefixUser, userID))
}

// IsValidDomain checks whether d is a recognised domain string.
func IsValidDomain(d Domain) bool {
	if d == DomainSys || d == DomainSchool || d == WildcardDomain {
		return true
	}

	s := string(d)
	if len(s) > len(DomainPrefixUser) && s[:len(DomainPrefixUser)] == string(DomainPrefixUser) {
		return reUUID.MatchString(s[len(DomainPrefixUser):])
	}
	return false
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// PolicySubject is the p.sub in Casbin: either a role (preferred) or a user/service id.
type PolicySubject string

// GroupSubject is the g.sub in Casbin: a concrete principal id (user_id or service_id).
type GroupSubject string

// Grouping rows: g, user_id, role, domain
type GroupingPolicy struct {
	Subject GroupSubject
	Role    Role
	Domain  Domain
}

// Permission rows: p, role, domain, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
