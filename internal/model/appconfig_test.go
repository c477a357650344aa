package model

import (
	"testing"
	"time"
)

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.DefaultEncoding != defaults.Encoding {
		t.Errorf("Encoding mismatch: config=%s settings=%s", cfg.DefaultEncoding, defaults.Encoding)
	}
	if cfg.DefaultLinkUsage != defaults.LinkUsage {
		t.Errorf("LinkUsage mismatch: config=%v settings=%v", cfg.DefaultLinkUsage, defaults.LinkUsage)
	}
	if cfg.DefaultTimeLimit != defaults.TimeLimit {
		t.Errorf("TimeLimit mismatch: config=%s settings=%s", cfg.DefaultTimeLimit, defaults.TimeLimit)
	}
	if cfg.Units != "cm" {
		t.Errorf("expected default units=cm, got %s", cfg.Units)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil")
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultEncoding = EncodingFourBit
	cfg.DefaultLinkUsage = false
	cfg.DefaultTimeLimit = 5 * time.Second
	cfg.DefaultNodeLimit = 1000

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.Encoding != EncodingFourBit {
		t.Errorf("expected Encoding=fourbit, got %s", s.Encoding)
	}
	if s.LinkUsage {
		t.Error("expected LinkUsage=false")
	}
	if s.TimeLimit != 5*time.Second {
		t.Errorf("expected TimeLimit=5s, got %s", s.TimeLimit)
	}
	if s.NodeLimit != 1000 {
		t.Errorf("expected NodeLimit=1000, got %d", s.NodeLimit)
	}
}

func TestApplyToSettingsKeepsEncodingWhenUnset(t *testing.T) {
	cfg := AppConfig{}
	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.Encoding != EncodingOneHot {
		t.Errorf("expected encoding to stay onehot, got %s", s.Encoding)
	}
	if s.Backend != BackendBranchBound {
		t.Errorf("expected backend to stay branchbound, got %s", s.Backend)
	}
}

func TestAddRecentProject(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentProject("a.json", 2)
	cfg.AddRecentProject("b.json", 2)
	cfg.AddRecentProject("a.json", 2)
	cfg.AddRecentProject("c.json", 2)

	if len(cfg.RecentProjects) != 2 {
		t.Fatalf("expected 2 recent projects, got %d", len(cfg.RecentProjects))
	}
	if cfg.RecentProjects[0] != "c.json" || cfg.RecentProjects[1] != "a.json" {
		t.Errorf("unexpected order: %v", cfg.RecentProjects)
	}
}
