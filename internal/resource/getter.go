package resource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"

	beaconErrors "beacon/internal/errors"
	"beacon/internal/location"
)

// Getter is the resource-watch collaborator: given a resource descriptor
// it yields the live resource object or nothing.
type Getter interface {
	Get(ctx context.Context, desc location.ResourceDescriptor) (*unstructured.Unstructured, error)
}

// DirGetter serves resources from a directory of YAML manifests. Each
// file may hold multiple documents separated by "---".
type DirGetter struct {
	root string
}

func NewDirGetter(root string) *DirGetter {
	return &DirGetter{root: root}
}

func (g *DirGetter) Get(ctx context.Context, desc location.ResourceDescriptor) (*unstructured.Unstructured, error) {
	if g.root == "" {
		return nil, fmt.Errorf("no manifest directory configured: %w", beaconErrors.ErrNotFound)
	}

	entries, err := os.ReadDir(g.root)
	if err != nil {
		return nil, fmt.Errorf("read manifest dir %s: %w", g.root, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(g.root, name))
		if err != nil {
			return nil, fmt.Errorf("read manifest %s: %w", name, err)
		}

		for _, doc := range splitDocuments(string(data)) {
			obj, err := decodeDocument(doc)
			if err != nil || obj == nil {
				continue
			}
			if matches(obj, desc) {
				return obj, nil
			}
		}
	}

	return nil, fmt.Errorf("%s %s: %w", desc.Kind, desc.Name, beaconErrors.ErrNotFound)
}

func splitDocuments(data string) []string {
	return strings.Split(data, "\n---")
}

func decodeDocument(doc string) (*unstructured.Unstructured, error) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil, nil
	}

	var obj map[string]interface{}
	if err := yaml.Unmarshal([]byte(doc), &obj); err != nil {
		return nil, err
	}
	if len(obj) == 0 {
		return nil, nil
	}
	return &unstructured.Unstructured{Object: obj}, nil
}

func matches(obj *unstructured.Unstructured, desc location.ResourceDescriptor) bool {
	if obj.GetKind() != desc.Kind || obj.GetName() != desc.Name {
		return false
	}
	// A descriptor without a namespace (cluster or all-namespaces view)
	// matches the first resource with that kind and name.
	if desc.Namespace != "" && obj.GetNamespace() != desc.Namespace {
		return false
	}
	return true
}
