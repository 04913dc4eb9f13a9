package model

import (
	"encoding/json"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"student", RoleStudent, false},
		{"counselor", RoleCounselor, false},
		{"admin", RoleAdmin, false},
		{"", RoleUnknown, true},
		{"Student", RoleUnknown, true},
		{"teacher", RoleUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRolePrivileged(t *testing.T) {
	if RoleStudent.Privileged() {
		t.Error("student should not be privileged")
	}
	if !RoleCounselor.Privileged() {
		t.Error("counselor should be privileged")
	}
	if !RoleAdmin.Privileged() {
		t.Error("admin should be privileged")
	}
	if RoleUnknown.Privileged() {
		t.Error("unknown role should not be privileged")
	}
}

func TestRoleJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(RoleCounselor)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"counselor"` {
		t.Errorf("marshal = %s, want %q", b, `"counselor"`)
	}

	var r Role
	if err := json.Unmarshal([]byte(`"admin"`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r != RoleAdmin {
		t.Errorf("unmarshal = %v, want RoleAdmin", r)
	}

	if err := json.Unmarshal([]byte(`"principal"`), &r); err == nil {
		t.Error("expected error for unknown role string")
	}

	if _, err := json.Marshal(RoleUnknown); err == nil {
		t.Error("expected error marshalling unknown role")
	}
}
