package location

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// ResourceDescriptor identifies the cluster object the user is currently
// viewing. Namespace is empty for cluster-scoped and all-namespaces views.
type ResourceDescriptor struct {
	Kind      string
	Name      string
	Namespace string
}

// AlertKind is the fixed kind assigned to alert detail views.
const AlertKind = "Alert"

// resourceKinds maps a console route's resource-type segment to the
// canonical kind name. Entries whose canonical kind equals the route key
// (custom resource group~version~kind triples) pass through unchanged;
// this is a lookup table, not a parser.
var resourceKinds = map[string]string{
	"pods":                     "Pod",
	"deployments":              "Deployment",
	"statefulsets":             "StatefulSet",
	"cronjobs":                 "CronJob",
	"jobs":                     "Job",
	"daemonsets":               "DaemonSet",
	"replicasets":              "ReplicaSet",
	"horizontalpodautoscalers": "HorizontalPodAutoscaler",
	"poddisruptionbudgets":     "PodDisruptionBudget",

	// Networking
	"services":        "Service",
	"routes":          "Route",
	"ingresses":       "Ingress",
	"networkpolicies": "NetworkPolicy",

	// Virtualization
	"kubevirt.io~v1~VirtualMachine":          "kubevirt.io~v1~VirtualMachine",
	"kubevirt.io~v1~VirtualMachineInstance":  "kubevirt.io~v1~VirtualMachineInstance",
	"kubevirt.io~v1~VirtualMachineInstanceMigration": "kubevirt.io~v1~VirtualMachineInstanceMigration",
	"instancetype.kubevirt.io~v1beta1~VirtualMachineClusterInstancetype": "instancetype.kubevirt.io~v1beta1~VirtualMachineClusterInstancetype",
	"instancetype.kubevirt.io~v1beta1~VirtualMachineClusterPreference":   "instancetype.kubevirt.io~v1beta1~VirtualMachineClusterPreference",
	"cdi.kubevirt.io~v1beta1~DataSource":                                 "cdi.kubevirt.io~v1beta1~DataSource",
	"migrations.kubevirt.io~v1alpha1~MigrationPolicy":                    "migrations.kubevirt.io~v1alpha1~MigrationPolicy",
	"templates": "Template",
}

const (
	namespacePattern    = `[a-z0-9-]+`
	resourceNamePattern = `[a-z0-9-.]+`
)

var (
	namespacedRe    *regexp.Regexp
	allNamespacesRe *regexp.Regexp
	clusterRe       *regexp.Regexp
	alertRe         = regexp.MustCompile(`^/monitoring/alerts/[0-9]+`)
)

func init() {
	types := resourceTypePattern()
	namespacedRe = regexp.MustCompile(`/k8s/ns/(` + namespacePattern + `)/(` + types + `)/(` + resourceNamePattern + `)`)
	allNamespacesRe = regexp.MustCompile(`/k8s/all-namespaces/(` + types + `)/(` + resourceNamePattern + `)`)
	clusterRe = regexp.MustCompile(`/k8s/cluster/(` + types + `)/(` + resourceNamePattern + `)`)
}

// resourceTypePattern builds a deterministic alternation of the alias
// table keys, longest first so no key can shadow a longer sibling.
func resourceTypePattern() string {
	keys := make([]string, 0, len(resourceKinds))
	for key := range resourceKinds {
		keys = append(keys, regexp.QuoteMeta(key))
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return strings.Join(keys, "|")
}

// KindFor returns the canonical kind for a route resource-type segment.
func KindFor(resourceType string) (string, bool) {
	kind, ok := resourceKinds[resourceType]
	return kind, ok
}

// Resolve derives the resource descriptor from the current navigation
// path and query parameters. Matching is ordered and first-match-wins:
// namespaced, all-namespaces, cluster-scoped, then alert views. The
// second return value is false when no shape matches.
func Resolve(path string, query url.Values) (ResourceDescriptor, bool) {
	if path == "" {
		return ResourceDescriptor{}, false
	}

	if matches := namespacedRe.FindStringSubmatch(path); matches != nil {
		return ResourceDescriptor{
			Kind:      resourceKinds[matches[2]],
			Name:      matches[3],
			Namespace: matches[1],
		}, true
	}

	if matches := allNamespacesRe.FindStringSubmatch(path); matches != nil {
		return ResourceDescriptor{
			Kind: resourceKinds[matches[1]],
			Name: matches[2],
		}, true
	}

	if matches := clusterRe.FindStringSubmatch(path); matches != nil {
		return ResourceDescriptor{
			Kind: resourceKinds[matches[1]],
			Name: matches[2],
		}, true
	}

	if alertRe.MatchString(path) && query.Has("alertname") {
		return ResourceDescriptor{
			Kind:      AlertKind,
			Name:      query.Get("alertname"),
			Namespace: query.Get("namespace"),
		}, true
	}

	return ResourceDescriptor{}, false
}
