// Package content holds the domain model of a fetch cycle: the three
// resources, their decoded payloads and the per-resource Outcome type.
package content

import "fmt"

// Resource identifies one of the independently fetched resources.
type Resource int

const (
	// ResourceJoke is a single random joke.
	ResourceJoke Resource = iota
	// ResourceComments is a list of user comments.
	ResourceComments
	// ResourceImage is a raw image payload.
	ResourceImage

	// NumResources is the number of resources fetched per cycle.
	NumResources = 3
)

var resourceNames = [NumResources]string{"joke", "comments", "image"}

// String returns the lower-case resource name.
func (r Resource) String() string {
	if r < 0 || int(r) >= NumResources {
		return fmt.Sprintf("resource(%d)", int(r))
	}
	return resourceNames[r]
}

// Valid reports whether r names a known resource.
func (r Resource) Valid() bool { return r >= 0 && int(r) < NumResources }

// Resources returns every resource in canonical order.
func Resources() []Resource {
	return []Resource{ResourceJoke, ResourceComments, ResourceImage}
}

// ParseResource maps a resource name back to its Resource value.
func ParseResource(name string) (Resource, error) {
	for i, n := range resourceNames {
		if n == name {
			return Resource(i), nil
		}
	}
	return 0, fmt.Errorf("unknown resource %q", name)
}
