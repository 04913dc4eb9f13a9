package authorize

import (
	"context"
	"log/slog"
)

// SeedDefaultPolicies sets up the baseline RBAC policies for the system.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	logger := slog.Default()

	// System-level policies (domain: sys)
	sysPolicies := []PermissionPolicy{
		// SuperAdmin: god mode
		{RoleSysSuperAdmin, DomainSys, WildcardResource, WildcardAction, EffectAllow},
	}

	// School-level policies (domain: school)
	schoolPolicies := []PermissionPolicy{
		// Admin: manage everything in the school domain, including RBAC
		{RoleSchoolAdmin, DomainSchool, WildcardResource, WildcardAction, EffectAllow},

		// Counselor: full counseling workflow, no user/RBAC management
		{RoleSchoolCounselor, DomainSchool, ResourceConsultation, ActionManage, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceConsultation, ActionAcknowledge, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceConsultation, ActionResolve, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceConsultationMessage, ActionManage, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceBehaviorRecord, ActionManage, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceSchedule, ActionManage, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceTestTemplate, ActionManage, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceTestSession, ActionRead, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceTestSession, ActionList, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceWhatsAppTemplate, ActionManage, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceWhatsAppDispatch, ActionExecute, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceForumTopic, ActionManage, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceNotification, ActionManage, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceAssistant, ActionExecute, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceUser, ActionRead, EffectAllow},
		{RoleSchoolCounselor, DomainSchool, ResourceUser, ActionList, EffectAllow},

		// Student: own consultations and test sessions, forum, assistant
		{RoleSchoolStudent, DomainSchool, ResourceConsultation, ActionCreate, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceConsultation, ActionRead, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceConsultation, ActionList, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceConsultationMessage, ActionCreate, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceConsultationMessage, ActionRead, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceConsultationMessage, ActionList, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceTestTemplate, ActionRead, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceTestTemplate, ActionList, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceTestSession, ActionCreate, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceTestSession, ActionRead, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceTestSession, ActionUpdate, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceForumTopic, ActionCreate, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceForumTopic, ActionRead, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceForumTopic, ActionList, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceNotification, ActionRead, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceNotification, ActionList, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceNotification, ActionUpdate, EffectAllow},
		{RoleSchoolStudent, DomainSchool, ResourceAssistant, ActionExecute, EffectAllow},
	}

	// User-level policies (domain: user:*)
	userPolicies := []PermissionPolicy{
		{RoleUserSelf, WildcardDomain, ResourceAuthSession, ActionManage, EffectAllow},
	}

	allPolicies := expandManage(append(append(sysPolicies, schoolPolicies...), userPolicies...))

	for _, p := range allPolicies {
		added, err := auth.AddPermission(ctx, p.Subject, p.Domain, p.Object, p.Action, p.Effect)
		if err != nil {
			logger.Error("failed to add policy", "policy", p, "error", err)
			return err
		}
		if added {
			logger.Debug("added policy", "role", p.Subject, "domain", p.Domain, "resource", p.Object, "action", p.Action)
		}
	}

	logger.Info("seeded default RBAC policies", "count", len(allPolicies))
	return nil
}

// AssignUserSelfRole assigns the user:self role in the user's private domain.
// Call this when creating a new user.
func AssignUserSelfRole(ctx context.Context, auth IAuthorization, userID string) error {
	domain := UserDomain(userID)
	subject := GroupSubject(userID)

	_, err := auth.AddRoleForUserInDomain(ctx, subject, RoleUserSelf, domain)
	return err
}

// AssignSchoolRole grants the school-domain role matching a stored profile
// role. Call this on sign-up and whenever an admin changes a user's role.
func AssignSchoolRole(ctx context.Context, auth IAuthorization, userID, profileRole string) error {
	role, ok := ProfileRoleToRBACRole[profileRole]
	if !ok {
		return ErrInvalidArgs
	}
	subject := GroupSubject(userID)

	_, err := auth.AddRoleForUserInDomain(ctx, subject, role, DomainSchool)
	return err
}

// RemoveSchoolRole revokes a school-domain role from a user.
func RemoveSchoolRole(ctx context.Context, auth IAuthorization, userID, profileRole string) error {
	role, ok := ProfileRoleToRBACRole[profileRole]
	if !ok {
		return ErrInvalidArgs
	}
	subject := GroupSubject(userID)

	_, err := auth.RemoveRoleForUserInDomain(ctx, subject, role, DomainSchool)
	return err
}

// expandManage rewrites each "manage" grant into the granular CRUD and list
// actions plus manage itself. The matcher compares actions literally, so the
// expansion has to happen at seed time.
func expandManage(policies []PermissionPolicy) []PermissionPolicy {
	granular := []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionList}

	out := make([]PermissionPolicy, 0, len(policies))
	for _, p := range policies {
		out = append(out, p)
		if p.Action != ActionManage {
			continue
		}
		for _, a := range granular {
			q := p
			q.Action = a
			out = append(out, q)
		}
	}
	return out
}
