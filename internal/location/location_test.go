package location

import (
	"net/url"
	"testing"
)

func TestResolve_Namespaced(t *testing.T) {
	tests := []struct {
		path      string
		kind      string
		name      string
		namespace string
	}{
		{"/k8s/ns/default/pods/nginx", "Pod", "nginx", "default"},
		{"/k8s/ns/openshift-monitoring/deployments/prometheus-operator", "Deployment", "prometheus-operator", "openshift-monitoring"},
		{"/k8s/ns/team-a/cronjobs/cleanup", "CronJob", "cleanup", "team-a"},
		{"/k8s/ns/default/jobs/backup-2", "Job", "backup-2", "default"},
		{"/k8s/ns/default/services/web", "Service", "web", "default"},
		{"/k8s/ns/default/pods/nginx/logs", "Pod", "nginx", "default"},
		{"/k8s/ns/vms/kubevirt.io~v1~VirtualMachine/test-vm", "kubevirt.io~v1~VirtualMachine", "test-vm", "vms"},
	}

	for _, tt := range tests {
		desc, ok := Resolve(tt.path, nil)
		if !ok {
			t.Errorf("Resolve(%q) not found, want match", tt.path)
			continue
		}
		if desc.Kind != tt.kind {
			t.Errorf("Resolve(%q).Kind = %q, want %q", tt.path, desc.Kind, tt.kind)
		}
		if desc.Name != tt.name {
			t.Errorf("Resolve(%q).Name = %q, want %q", tt.path, desc.Name, tt.name)
		}
		if desc.Namespace != tt.namespace {
			t.Errorf("Resolve(%q).Namespace = %q, want %q", tt.path, desc.Namespace, tt.namespace)
		}
	}
}

func TestResolve_NoNamespace(t *testing.T) {
	tests := []struct {
		path string
		kind string
		name string
	}{
		{"/k8s/all-namespaces/daemonsets/node-exporter", "DaemonSet", "node-exporter"},
		{"/k8s/cluster/templates/rhel9", "Template", "rhel9"},
	}

	for _, tt := range tests {
		desc, ok := Resolve(tt.path, nil)
		if !ok {
			t.Fatalf("Resolve(%q) not found, want match", tt.path)
		}
		if desc.Kind != tt.kind || desc.Name != tt.name {
			t.Errorf("Resolve(%q) = %+v, want kind %q name %q", tt.path, desc, tt.kind, tt.name)
		}
		if desc.Namespace != "" {
			t.Errorf("Resolve(%q).Namespace = %q, want empty", tt.path, desc.Namespace)
		}
	}
}

func TestResolve_Alert(t *testing.T) {
	query := url.Values{}
	query.Set("alertname", "KubePodCrashLooping")
	query.Set("namespace", "openshift-monitoring")

	desc, ok := Resolve("/monitoring/alerts/12345", query)
	if !ok {
		t.Fatal("Resolve() not found, want alert match")
	}
	if desc.Kind != AlertKind {
		t.Errorf("desc.Kind = %q, want %q", desc.Kind, AlertKind)
	}
	if desc.Name != "KubePodCrashLooping" {
		t.Errorf("desc.Name = %q, want KubePodCrashLooping", desc.Name)
	}
	if desc.Namespace != "openshift-monitoring" {
		t.Errorf("desc.Namespace = %q, want openshift-monitoring", desc.Namespace)
	}
}

func TestResolve_AlertWithoutAlertname(t *testing.T) {
	if _, ok := Resolve("/monitoring/alerts/12345", url.Values{}); ok {
		t.Error("Resolve() matched an alert path without an alertname parameter")
	}
}

func TestResolve_AlertWithoutNamespace(t *testing.T) {
	query := url.Values{}
	query.Set("alertname", "Watchdog")

	desc, ok := Resolve("/monitoring/alerts/0", query)
	if !ok {
		t.Fatal("Resolve() not found, want alert match")
	}
	if desc.Namespace != "" {
		t.Errorf("desc.Namespace = %q, want empty", desc.Namespace)
	}
}

func TestResolve_NoMatch(t *testing.T) {
	paths := []string{
		"",
		"/",
		"/k8s/ns/default",
		"/k8s/ns/default/configmaps/app-config",
		"/k8s/ns/Default/pods/nginx",
		"/k8s/ns/default/pods/NGINX",
		"/monitoring/alerts/abc",
		"/settings/cluster",
	}

	for _, path := range paths {
		if desc, ok := Resolve(path, nil); ok {
			t.Errorf("Resolve(%q) = %+v, want no match", path, desc)
		}
	}
}

func TestKindFor(t *testing.T) {
	if kind, ok := KindFor("pods"); !ok || kind != "Pod" {
		t.Errorf("KindFor(pods) = %q, %v", kind, ok)
	}
	if kind, ok := KindFor("templates"); !ok || kind != "Template" {
		t.Errorf("KindFor(templates) = %q, %v", kind, ok)
	}
	if _, ok := KindFor("configmaps"); ok {
		t.Error("KindFor(configmaps) should not be present")
	}
}
