package config

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("PROJECTID", "demo")
	t.Setenv("PORT", "")
	t.Setenv("AITTL", "")
	t.Setenv("ADMINALLOWLIST", "")

	cfg := New()
	if cfg.ProjectID != "demo" {
		t.Fatalf("ProjectID = %q", cfg.ProjectID)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.AITTL != 30*24*time.Hour {
		t.Fatalf("AITTL = %v", cfg.AITTL)
	}
	if len(cfg.AdminAllowList) != 0 {
		t.Fatalf("AdminAllowList = %v", cfg.AdminAllowList)
	}
}

func TestNewParsesValues(t *testing.T) {
	t.Setenv("AITTL", "48h")
	t.Setenv("ADMINALLOWLIST", " UidBoss9 , owner@example.com,,")

	cfg := New()
	if cfg.AITTL != 48*time.Hour {
		t.Fatalf("AITTL = %v", cfg.AITTL)
	}
	if len(cfg.AdminAllowList) != 2 || cfg.AdminAllowList[0] != "UidBoss9" || cfg.AdminAllowList[1] != "owner@example.com" {
		t.Fatalf("AdminAllowList = %v", cfg.AdminAllowList)
	}
}
