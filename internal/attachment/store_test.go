package attachment

import (
	"strings"
	"testing"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	beaconErrors "beacon/internal/errors"
)

func podResource(name, namespace string) *unstructured.Unstructured {
	return &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "v1",
			"kind":       "Pod",
			"metadata": map[string]interface{}{
				"name":      name,
				"namespace": namespace,
				"managedFields": []interface{}{
					map[string]interface{}{"manager": "kubectl"},
				},
			},
			"spec": map[string]interface{}{
				"containers": []interface{}{
					map[string]interface{}{"name": "main", "image": "nginx:latest"},
				},
			},
			"status": map[string]interface{}{
				"phase": "Running",
			},
		},
	}
}

func TestStore_ToggleAddsAndRemoves(t *testing.T) {
	store := NewStore()
	pod := podResource("nginx", "default")

	added, err := store.Toggle(TypeYAML, pod)
	if err != nil {
		t.Fatalf("Toggle() failed: %v", err)
	}
	if !added {
		t.Error("first Toggle() should add")
	}
	if store.Len() != 1 {
		t.Fatalf("store.Len() = %d, want 1", store.Len())
	}

	added, err = store.Toggle(TypeYAML, pod)
	if err != nil {
		t.Fatalf("second Toggle() failed: %v", err)
	}
	if added {
		t.Error("second Toggle() should remove")
	}
	if store.Len() != 0 {
		t.Errorf("store.Len() = %d, want 0 after toggle pair", store.Len())
	}
}

func TestStore_IdentityIgnoresNamespace(t *testing.T) {
	store := NewStore()

	if _, err := store.Toggle(TypeYAML, podResource("nginx", "ns1")); err != nil {
		t.Fatalf("Toggle() failed: %v", err)
	}
	added, err := store.Toggle(TypeYAML, podResource("nginx", "ns2"))
	if err != nil {
		t.Fatalf("Toggle() failed: %v", err)
	}
	if added {
		t.Error("toggle across namespaces should remove the first attachment, not add")
	}
	if store.Len() != 0 {
		t.Errorf("store.Len() = %d, want 0", store.Len())
	}
}

func TestStore_DistinctTypesCoexist(t *testing.T) {
	store := NewStore()
	pod := podResource("nginx", "default")

	if _, err := store.Toggle(TypeYAML, pod); err != nil {
		t.Fatalf("Toggle(YAML) failed: %v", err)
	}
	if _, err := store.Toggle(TypeYAMLStatus, pod); err != nil {
		t.Fatalf("Toggle(YAML Status) failed: %v", err)
	}

	if store.Len() != 2 {
		t.Fatalf("store.Len() = %d, want 2", store.Len())
	}
	if !store.Has(ID(TypeYAML, "Pod", "nginx")) {
		t.Error("missing YAML attachment")
	}
	if !store.Has(ID(TypeYAMLStatus, "Pod", "nginx")) {
		t.Error("missing YAML Status attachment")
	}
}

func TestStore_SnapshotStripsManagedFields(t *testing.T) {
	store := NewStore()
	pod := podResource("nginx", "default")

	if _, err := store.Toggle(TypeYAML, pod); err != nil {
		t.Fatalf("Toggle() failed: %v", err)
	}

	a, ok := store.Get(ID(TypeYAML, "Pod", "nginx"))
	if !ok {
		t.Fatal("attachment not found")
	}
	if strings.Contains(a.Value, "managedFields") {
		t.Error("snapshot should not contain managedFields")
	}
	if !strings.Contains(a.Value, "kind: Pod") {
		t.Errorf("snapshot missing kind, got:\n%s", a.Value)
	}
	if strings.HasSuffix(a.Value, "\n") {
		t.Error("snapshot should have trailing whitespace trimmed")
	}

	// The store holds a copy; the source object keeps its managedFields.
	if _, found, _ := unstructured.NestedSlice(pod.Object, "metadata", "managedFields"); !found {
		t.Error("source resource was mutated by snapshot")
	}
}

func TestStore_SnapshotKeepsLongScalarsUnwrapped(t *testing.T) {
	store := NewStore()
	pod := podResource("nginx", "default")
	description := strings.TrimSpace(strings.Repeat("serves the checkout frontend behind the payments ingress ", 4))
	metadata := pod.Object["metadata"].(map[string]interface{})
	metadata["annotations"] = map[string]interface{}{
		"description": description,
	}

	if _, err := store.Toggle(TypeYAML, pod); err != nil {
		t.Fatalf("Toggle() failed: %v", err)
	}

	a, _ := store.Get(ID(TypeYAML, "Pod", "nginx"))
	if !strings.Contains(a.Value, description) {
		t.Errorf("long annotation was folded across lines, got:\n%s", a.Value)
	}
}

func TestStore_StatusSnapshot(t *testing.T) {
	store := NewStore()
	pod := podResource("nginx", "default")

	if _, err := store.Toggle(TypeYAMLStatus, pod); err != nil {
		t.Fatalf("Toggle() failed: %v", err)
	}

	a, _ := store.Get(ID(TypeYAMLStatus, "Pod", "nginx"))
	if !strings.Contains(a.Value, "phase: Running") {
		t.Errorf("status snapshot missing phase, got:\n%s", a.Value)
	}
	if strings.Contains(a.Value, "spec") {
		t.Errorf("status snapshot should not carry spec, got:\n%s", a.Value)
	}
}

func TestStore_SnapshotFailureLeavesStoreUnmodified(t *testing.T) {
	store := NewStore()
	bad := podResource("nginx", "default")
	bad.Object["spec"] = make(chan int) // not serializable

	if _, err := store.Toggle(TypeYAML, bad); err == nil {
		t.Fatal("Toggle() should fail for unserializable resource")
	} else if !beaconErrors.IsCategory(err, beaconErrors.ErrSerialization) {
		t.Errorf("error category = %s, want ErrSerialization", beaconErrors.Category(err))
	}
	if store.Len() != 0 {
		t.Errorf("store.Len() = %d, want 0 after failed snapshot", store.Len())
	}
}

func TestStore_ToggleUnsupportedType(t *testing.T) {
	store := NewStore()
	if _, err := store.Toggle(TypeYAMLUpload, podResource("nginx", "default")); err == nil {
		t.Fatal("Toggle() should fail for types without a snapshot")
	}
	if store.Len() != 0 {
		t.Error("store should be unchanged")
	}
}

func TestStore_ListInsertionOrder(t *testing.T) {
	store := NewStore()
	store.Add(TypeYAML, "Pod", "b", "default", "b-yaml")
	store.Add(TypeYAML, "Pod", "a", "default", "a-yaml")
	store.Add(TypeYAMLStatus, "Pod", "b", "default", "b-status")

	list := store.List()
	if len(list) != 3 {
		t.Fatalf("len(list) = %d, want 3", len(list))
	}
	if list[0].Name != "b" || list[1].Name != "a" || list[2].Type != TypeYAMLStatus {
		t.Errorf("list order = %v, want insertion order", list)
	}
}

func TestStore_AddDuplicateIsNoop(t *testing.T) {
	store := NewStore()
	store.Add(TypeYAML, "Pod", "nginx", "default", "first")
	store.Add(TypeYAML, "Pod", "nginx", "other", "second")

	a, _ := store.Get(ID(TypeYAML, "Pod", "nginx"))
	if a.Value != "first" {
		t.Errorf("a.Value = %q, want the original insert to win", a.Value)
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}
}

func TestAttachment_Changed(t *testing.T) {
	store := NewStore()
	store.Add(TypeYAML, "Pod", "nginx", "default", "original")

	id := ID(TypeYAML, "Pod", "nginx")
	if a, _ := store.Get(id); a.Changed() {
		t.Error("freshly captured attachment should not be changed")
	}

	store.SetValue(id, "edited")
	a, _ := store.Get(id)
	if !a.Changed() {
		t.Error("edited attachment should be changed")
	}
	if a.OriginalValue != "original" {
		t.Errorf("a.OriginalValue = %q, want original", a.OriginalValue)
	}
}

func TestAttachment_Export(t *testing.T) {
	tests := []struct {
		attachmentType Type
		wireType       string
		contentType    string
	}{
		{TypeYAML, "api object", "application/yaml"},
		{TypeYAMLStatus, "api object", "application/yaml"},
		{TypeEvents, "event", "application/yaml"},
		{TypeLog, "log", "text/plain"},
	}

	for _, tt := range tests {
		wire := Attachment{Type: tt.attachmentType, Value: "content"}.Export()
		if wire.AttachmentType != tt.wireType {
			t.Errorf("Export(%s).AttachmentType = %q, want %q", tt.attachmentType, wire.AttachmentType, tt.wireType)
		}
		if wire.ContentType != tt.contentType {
			t.Errorf("Export(%s).ContentType = %q, want %q", tt.attachmentType, wire.ContentType, tt.contentType)
		}
		if wire.Content != "content" {
			t.Errorf("Export(%s).Content = %q", tt.attachmentType, wire.Content)
		}
	}
}
