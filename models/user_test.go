package models

import "testing"

func TestUser_IsAdmin(t *testing.T) {
	var nilUser *User
	if nilUser.IsAdmin() {
		t.Fatalf("nil user must not be admin")
	}
	if (&User{Role: RoleUser}).IsAdmin() {
		t.Fatalf("user role must not be admin")
	}
	if (&User{Role: "Admin"}).IsAdmin() {
		t.Fatalf("role comparison is exact")
	}
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Fatalf("admin role must be admin")
	}
}
