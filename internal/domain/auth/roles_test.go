package auth

import "testing"

func TestReviewerEligibleRoles(t *testing.T) {
	for _, role := range []string{RoleHR, RoleManager, RoleCEO, RoleAdmin} {
		if !CanReview(role) {
			t.Fatalf("expected %s to be reviewer eligible", role)
		}
		if !CanViewAll(role) {
			t.Fatalf("expected %s to view all requests", role)
		}
		if !CanChangeRole(role) {
			t.Fatalf("expected %s to manage roles", role)
		}
	}
}

func TestEmployeeIsNotReviewerEligible(t *testing.T) {
	if CanReview(RoleEmployee) {
		t.Fatal("employee must not review")
	}
	if CanViewAll(RoleEmployee) {
		t.Fatal("employee must not view all requests")
	}
	if CanChangeRole(RoleEmployee) {
		t.Fatal("employee must not manage roles")
	}
}

func TestGateDeniesUnknownRoles(t *testing.T) {
	for _, role := range []string{"", "superuser", "HR", "Admin", "intern"} {
		if CanReview(role) || CanViewAll(role) || CanChangeRole(role) {
			t.Fatalf("expected deny for unknown role %q", role)
		}
	}
}

func TestGateIsTotalOverEnumeration(t *testing.T) {
	for _, role := range AllRoles {
		if !ValidRole(role) {
			t.Fatalf("role %s missing from enumeration", role)
		}
		// Every enumerated role must resolve to an explicit decision.
		expected := role != RoleEmployee
		if CanReview(role) != expected {
			t.Fatalf("unexpected review decision for %s", role)
		}
	}
	if ValidRole("contractor") {
		t.Fatal("unknown role must not validate")
	}
}

func TestHasPermissionFailsClosed(t *testing.T) {
	if !HasPermission(RoleEmployee, PermLeaveWrite) {
		t.Fatal("employee should submit leave")
	}
	if HasPermission(RoleEmployee, PermLeaveApprove) {
		t.Fatal("employee must not approve leave")
	}
	if !HasPermission(RoleManager, PermLeaveApprove) {
		t.Fatal("manager should approve leave")
	}
	if HasPermission("unknown", PermLeaveRead) {
		t.Fatal("unknown role must have no permissions")
	}
}

func TestContentPublishSplitByRole(t *testing.T) {
	cases := []struct {
		role     string
		updates  bool
		policies bool
	}{
		{RoleEmployee, false, false},
		{RoleManager, false, false},
		{RoleHR, false, true},
		{RoleCEO, true, false},
		{RoleAdmin, true, true},
	}
	for _, tc := range cases {
		if got := HasPermission(tc.role, PermCeoUpdatesPublish); got != tc.updates {
			t.Fatalf("%s ceo-updates publish = %v, want %v", tc.role, got, tc.updates)
		}
		if got := HasPermission(tc.role, PermHrPoliciesPublish); got != tc.policies {
			t.Fatalf("%s hr-policies publish = %v, want %v", tc.role, got, tc.policies)
		}
	}
	// Holidays stay with the whole reviewer set.
	for _, role := range []string{RoleHR, RoleManager, RoleCEO, RoleAdmin} {
		if !HasPermission(role, PermContentPublish) {
			t.Fatalf("%s should publish holidays", role)
		}
	}
}
