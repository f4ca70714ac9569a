package attachment

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	beaconErrors "beacon/internal/errors"
)

// snapshotYAML captures the full resource manifest: a deep copy with the
// managed-fields metadata stripped, serialized to YAML and trimmed.
func snapshotYAML(resource *unstructured.Unstructured) (string, error) {
	obj := resource.DeepCopy()
	unstructured.RemoveNestedField(obj.Object, "metadata", "managedFields")
	return marshalTrimmed(obj.Object)
}

// snapshotStatus captures only the resource's status section.
func snapshotStatus(resource *unstructured.Unstructured) (string, error) {
	return marshalTrimmed(map[string]interface{}{
		"status": resource.Object["status"],
	})
}

// marshalTrimmed serializes with unbounded line width. Long scalars such
// as annotation values and container args must stay on one manifest line,
// so the emitter must never fold them.
func marshalTrimmed(v interface{}) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", beaconErrors.Serialization(fmt.Sprintf("dump resource YAML: %v", err))
	}
	return strings.TrimRight(string(data), " \t\n"), nil
}
