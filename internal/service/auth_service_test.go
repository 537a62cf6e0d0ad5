package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cod-next/internal/config"
	"github.com/cod-next/internal/models"
	"github.com/cod-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newAuthTestService(t *testing.T, name string) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key-0123456789-0123456789"
	cfg.JWT.ExpireHours = 2
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{
		MinLength:     8,
		RequireLower:  true,
		RequireNumber: true,
	}
	return NewAuthService(cfg, repository.NewAdminRepository(db)), db
}

func createTestAdmin(t *testing.T, svc *AuthService, db *gorm.DB, username, password string) *models.Admin {
	t.Helper()
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{
		Username:     username,
		PasswordHash: hash,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	return admin
}

func TestLoginSuccess(t *testing.T) {
	svc, db := newAuthTestService(t, "login")
	createTestAdmin(t, svc, db, "admin", "secret-pass1")

	admin, token, expiresAt, err := svc.Login("admin", "secret-pass1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if admin.Username != "admin" || token == "" {
		t.Fatalf("unexpected login result: %+v token=%q", admin, token)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("token expiry should be in the future")
	}
	if admin.LastLoginAt == nil {
		t.Fatalf("login should record last login time")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, db := newAuthTestService(t, "badlogin")
	createTestAdmin(t, svc, db, "admin", "secret-pass1")

	if _, _, _, err := svc.Login("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password should be rejected, got: %v", err)
	}
	if _, _, _, err := svc.Login("nobody", "secret-pass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user should be rejected, got: %v", err)
	}
}

func TestChangePasswordRotatesTokenVersion(t *testing.T) {
	svc, db := newAuthTestService(t, "chpass")
	admin := createTestAdmin(t, svc, db, "admin", "secret-pass1")

	if err := svc.ChangePassword(admin.ID, "secret-pass1", "next-pass-22"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	var reloaded models.Admin
	if err := db.First(&reloaded, admin.ID).Error; err != nil {
		t.Fatalf("reload admin failed: %v", err)
	}
	if reloaded.TokenVersion != admin.TokenVersion+1 {
		t.Fatalf("token version should rotate, got %d", reloaded.TokenVersion)
	}
	if reloaded.TokenInvalidBefore == nil {
		t.Fatalf("token invalid before should be set")
	}
	if err := svc.VerifyPassword(reloaded.PasswordHash, "next-pass-22"); err != nil {
		t.Fatalf("new password should verify: %v", err)
	}
}

func TestChangePasswordRejectsWrongOldPassword(t *testing.T) {
	svc, db := newAuthTestService(t, "wrongold")
	admin := createTestAdmin(t, svc, db, "admin", "secret-pass1")

	if err := svc.ChangePassword(admin.ID, "not-the-one", "next-pass-22"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("wrong old password should be rejected, got: %v", err)
	}
	if err := svc.ChangePassword(999, "secret-pass1", "next-pass-22"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown admin should be rejected, got: %v", err)
	}
}

func TestChangePasswordEnforcesPolicy(t *testing.T) {
	svc, db := newAuthTestService(t, "policy")
	admin := createTestAdmin(t, svc, db, "admin", "secret-pass1")

	err := svc.ChangePassword(admin.ID, "secret-pass1", "short")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak password should be rejected, got: %v", err)
	}
}

func TestValidatePasswordRules(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}

	cases := []struct {
		password string
		ok       bool
	}{
		{"Abcdefg1", true},
		{"abcdefg1", false},
		{"ABCDEFG1", false},
		{"Abcdefgh", false},
		{"Ab1", false},
	}
	for _, tc := range cases {
		err := validatePassword(policy, tc.password)
		if tc.ok && err != nil {
			t.Fatalf("password %q should pass, got: %v", tc.password, err)
		}
		if !tc.ok && !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("password %q should fail with weak password, got: %v", tc.password, err)
		}
	}

	if err := validatePassword(config.PasswordPolicyConfig{}, "x"); err != nil {
		t.Fatalf("empty policy should accept anything, got: %v", err)
	}
}
