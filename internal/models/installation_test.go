package models

import (
	"reflect"
	"testing"
)

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"none", "awaiting_payment", "awaiting_dns", "live"} {
		if _, err := ParseStatus(valid); err != nil {
			t.Errorf("ParseStatus(%q) unexpectedly failed: %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "active", "deployed", "LIVE"} {
		if _, err := ParseStatus(invalid); err == nil {
			t.Errorf("ParseStatus(%q) should fail", invalid)
		}
	}
}

func TestNextAction(t *testing.T) {
	tests := []struct {
		status      Status
		siteURL     string
		destination string
	}{
		{StatusNone, "", "/create"},
		{StatusAwaitingPayment, "", "/checkout"},
		{StatusAwaitingDNS, "", "/confirmation"},
		{StatusLive, "https://a.com", "https://a.com"},
	}

	for _, tt := range tests {
		got := NextAction(tt.status, tt.siteURL)
		if got.Destination != tt.destination {
			t.Errorf("NextAction(%s).Destination = %q, want %q", tt.status, got.Destination, tt.destination)
		}
	}
}

func TestReplaceFromRemote_StatusMapping(t *testing.T) {
	tests := []struct {
		remoteStatus string
		want         Status
	}{
		{"active", StatusLive},
		{"deploying", StatusNone},
		{"failed", StatusNone},
		{"", StatusNone},
	}

	for _, tt := range tests {
		inst := NewInstallation()
		inst.ReplaceFromRemote(&InstallationInfo{
			Domain: "a.com",
			Status: tt.remoteStatus,
		})
		if inst.Status != tt.want {
			t.Errorf("remote status %q mapped to %s, want %s", tt.remoteStatus, inst.Status, tt.want)
		}
	}
}

func TestReplaceFromRemote_DerivedFields(t *testing.T) {
	inst := NewInstallation()
	inst.ReplaceFromRemote(&InstallationInfo{
		Domain:        "a.com",
		Status:        "active",
		CreatedAt:     "2026-08-01T00:00:00Z",
		Nameservers:   []string{"ns1", "ns2"},
		Username:      "a",
		MySQLPassword: "p",
		ContainerName: "c",
	})

	if inst.SiteURL != "https://a.com" {
		t.Errorf("SiteURL = %q", inst.SiteURL)
	}
	if inst.WPAdminURL != "https://a.com/wp-admin" {
		t.Errorf("WPAdminURL = %q", inst.WPAdminURL)
	}
	if inst.Registrar != RegistrarCloudflare {
		t.Errorf("Registrar = %q", inst.Registrar)
	}
	if inst.LastPayment != "2026-08-01T00:00:00Z" {
		t.Errorf("LastPayment = %q", inst.LastPayment)
	}
}

func TestApplyDeploy(t *testing.T) {
	inst := NewInstallation()
	data := &DeployData{
		Domain:        "a.com",
		CreatedAt:     "T",
		WPAdminURL:    "https://a.com/wp-admin",
		SiteURL:       "https://a.com",
		Nameservers:   []string{"ns1", "ns2"},
		Username:      "a",
		MySQLPassword: "p",
		ContainerName: "c",
	}

	inst.ApplyDeploy("storage-2gb", data)

	if inst.Status != StatusAwaitingDNS {
		t.Errorf("Status = %s, want %s", inst.Status, StatusAwaitingDNS)
	}
	if inst.SiteURL != "https://a.com" {
		t.Errorf("SiteURL = %q", inst.SiteURL)
	}
	if !reflect.DeepEqual(inst.Nameservers, []string{"ns1", "ns2"}) {
		t.Errorf("Nameservers = %v", inst.Nameservers)
	}
	if inst.PlanID != "storage-2gb" {
		t.Errorf("PlanID = %q", inst.PlanID)
	}

	// Applying the same successful response twice yields the same record
	first := inst
	inst.ApplyDeploy("storage-2gb", data)
	if !reflect.DeepEqual(first, inst) {
		t.Errorf("second ApplyDeploy changed the record: %+v vs %+v", first, inst)
	}
}

func TestMergeFromRemote_TouchesOnlyRefreshableFields(t *testing.T) {
	inst := NewInstallation()
	inst.Domain = "old.com"
	inst.PlanID = "storage-5gb"
	inst.Status = StatusAwaitingDNS
	inst.CreatedAt = "T0"
	inst.MySQLPassword = "old-pass"
	inst.ContainerName = "c0"
	inst.Analytics = Analytics{Visitors7d: 42, Uptime30d: 99.5, LastChecked: "T1"}

	inst.MergeFromRemote(&InstallationInfo{
		Domain:        "new.com",
		Status:        "active", // must be ignored by merge
		Nameservers:   []string{"ns9"},
		MySQLPassword: "new-pass",
	})

	if inst.Domain != "new.com" || inst.SiteURL != "https://new.com" || inst.WPAdminURL != "https://new.com/wp-admin" {
		t.Errorf("derived fields not merged: %+v", inst)
	}
	if inst.MySQLPassword != "new-pass" {
		t.Errorf("MySQLPassword = %q", inst.MySQLPassword)
	}
	if !reflect.DeepEqual(inst.Nameservers, []string{"ns9"}) {
		t.Errorf("Nameservers = %v", inst.Nameservers)
	}

	// Everything else keeps its previous value
	if inst.Status != StatusAwaitingDNS {
		t.Errorf("merge must not change status, got %s", inst.Status)
	}
	if inst.PlanID != "storage-5gb" {
		t.Errorf("merge must not change plan, got %s", inst.PlanID)
	}
	if inst.Analytics.Visitors7d != 42 {
		t.Errorf("merge must not change analytics, got %+v", inst.Analytics)
	}
	if inst.CreatedAt != "T0" || inst.ContainerName != "c0" {
		t.Errorf("merge touched unrelated fields: %+v", inst)
	}
}

func TestMergeFromRemote_AbsentFieldsKeepPrevious(t *testing.T) {
	inst := NewInstallation()
	inst.Nameservers = []string{"keep1", "keep2"}
	inst.MySQLPassword = "keep-pass"

	inst.MergeFromRemote(&InstallationInfo{Domain: "a.com"})

	if !reflect.DeepEqual(inst.Nameservers, []string{"keep1", "keep2"}) {
		t.Errorf("empty remote nameservers must keep previous, got %v", inst.Nameservers)
	}
	if inst.MySQLPassword != "keep-pass" {
		t.Errorf("empty remote password must keep previous, got %q", inst.MySQLPassword)
	}
}
