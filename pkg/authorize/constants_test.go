package authorize

import (
	"testing"
)

func TestIsValidDomain(t *testing.T) {
	tests := []struct {
		name     string
		domain   Domain
		expected bool
	}{
		// Valid domains
		{"sys domain", DomainSys, true},
		{"school domain", DomainSchool, true},
		{"wildcard domain", WildcardDomain, true},
		{"valid user domain", Domain("user:550e8400-e29b-41d4-a716-446655440000"), true},

		// Invalid domains
		{"empty domain", Domain(""), false},
		{"random string", Domain("random"), false},
		{"user without uuid", Domain("user:"), false},
		{"user with invalid uuid", Domain("user:not-a-uuid"), false},
		{"unknown prefix", Domain("clinic:550e8400-e29b-41d4-a716-446655440000"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidDomain(tt.domain)
			if result != tt.expected {
				t.Errorf("IsValidDomain(%q) = %v, want %v", tt.domain, result, tt.expected)
			}
		})
	}
}

func TestUserDomain(t *testing.T) {
	userID := "550e8400-e29b-41d4-a716-446655440000"
	expected := Domain("user:550e8400-e29b-41d4-a716-446655440000")

	result := UserDomain(userID)
	if result != expected {
		t.Errorf("UserDomain(%q) = %q, want %q", userID, result, expected)
	}
}

func TestKnownActions(t *testing.T) {
	// Verify all expected actions are in the known map
	expectedActions := []Action{
		ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionList,
		ActionManage, ActionExecute, ActionAcknowledge, ActionResolve,
		ActionGrant, ActionRevoke,
	}

	for _, action := range expectedActions {
		if _, ok := KnownActions[action]; !ok {
			t.Errorf("Expected action %q to be in KnownActions", action)
		}
	}
}

func TestKnownResources(t *testing.T) {
	// Verify all expected resources are in the known map
	expectedResources := []Resource{
		ResourceUser, ResourceAuthSession,
		ResourceConsultation, ResourceConsultationMessage,
		ResourceBehaviorRecord, ResourceSchedule,
		ResourceTestTemplate, ResourceTestSession,
		ResourceForumTopic, ResourceNotification,
		ResourceWhatsAppTemplate, ResourceWhatsAppDispatch, ResourceAssistant,
		ResourceSystem, ResourceAudit, ResourceRBAC,
	}

	for _, resource := range expectedResources {
		if _, ok := KnownResources[resource]; !ok {
			t.Errorf("Expected resource %q to be in KnownResources", resource)
		}
	}
}

func TestKnownRoles(t *testing.T) {
	// Verify all expected roles are in the known map
	expectedRoles := []Role{
		RoleSysSuperAdmin,
		RoleSchoolAdmin, RoleSchoolCounselor, RoleSchoolStudent,
		RoleUserSelf,
	}

	for _, role := range expectedRoles {
		if _, ok := KnownRoles[role]; !ok {
			t.Errorf("Expected role %q to be in KnownRoles", role)
		}
	}
}

func TestRoleDisplayNamesID(t *testing.T) {
	// Verify all roles have Indonesian display names
	expectedRoles := []Role{
		RoleSysSuperAdmin,
		RoleSchoolAdmin, RoleSchoolCounselor, RoleSchoolStudent,
		RoleUserSelf,
	}

	for _, role := range expectedRoles {
		if name, ok := RoleDisplayNamesID[role]; !ok || name == "" {
			t.Errorf("Expected role %q to have an Indonesian display name", role)
		}
	}
}

func TestProfileRoleToRBACRole(t *testing.T) {
	tests := []struct {
		profileRole string
		want        Role
	}{
		{ProfileRoleAdmin, RoleSchoolAdmin},
		{ProfileRoleCounselor, RoleSchoolCounselor},
		{ProfileRoleStudent, RoleSchoolStudent},
	}

	for _, tt := range tests {
		got, ok := ProfileRoleToRBACRole[tt.profileRole]
		if !ok {
			t.Errorf("Expected mapping for profile role %q", tt.profileRole)
			continue
		}
		if got != tt.want {
			t.Errorf("ProfileRoleToRBACRole[%q] = %q, want %q", tt.profileRole, got, tt.want)
		}
	}
}
