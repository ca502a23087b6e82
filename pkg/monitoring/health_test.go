package monitoring

import (
	"testing"
)

func TestHealthChecker_Basic(t *testing.T) {
	hc := NewHealthChecker("lighthouse", "v1")
	hc.AddCheck("ok", func() CheckResult { return CheckResult{Status: StatusHealthy} })
	status := hc.CheckHealth()
	if status.Status != StatusHealthy {
		t.Fatalf("expected healthy")
	}
}

func TestHealthChecker_DegradedDoesNotMaskUnhealthy(t *testing.T) {
	hc := NewHealthChecker("lighthouse", "v1")
	hc.AddCheck("a", func() CheckResult { return CheckResult{Status: StatusDegraded} })
	hc.AddCheck("b", func() CheckResult { return CheckResult{Status: StatusUnhealthy} })
	if got := hc.CheckHealth().Status; got != StatusUnhealthy {
		t.Fatalf("expected unhealthy, got %q", got)
	}
}

func TestSMTPHealthCheck(t *testing.T) {
	res := SMTPHealthCheck(func() bool { return false })()
	if res.Status != StatusDegraded {
		t.Fatalf("expected degraded when unconfigured, got %q", res.Status)
	}
	res = SMTPHealthCheck(func() bool { return true })()
	if res.Status != StatusHealthy {
		t.Fatalf("expected healthy when configured, got %q", res.Status)
	}
}

func TestConfigurationHealthCheck(t *testing.T) {
	res := ConfigurationHealthCheck(map[string]string{"DATABASE_URL": ""})()
	if res.Status != StatusUnhealthy {
		t.Fatalf("expected unhealthy for missing config, got %q", res.Status)
	}
	res = ConfigurationHealthCheck(map[string]string{"DATABASE_URL": "postgres://x"})()
	if res.Status != StatusHealthy {
		t.Fatalf("expected healthy, got %q", res.Status)
	}
}
