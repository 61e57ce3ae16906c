package dataset

import (
	"fmt"
	"strings"

	"github.com/cellserve/cellserve/pkg/wrapper"
)

// Dataset is one logical collection of wrapped objects, identified by a
// caller-assigned uid unique within a serving session.
type Dataset struct {
	uid      string
	wrappers []wrapper.Wrapper
}

// New creates an empty dataset. The uid becomes the first segment of every
// route path the dataset serves, so it must be non-empty and slash-free.
func New(uid string) (*Dataset, error) {
	if uid == "" {
		return nil, fmt.Errorf("dataset: uid must not be empty")
	}
	if strings.Contains(uid, "/") {
		return nil, fmt.Errorf("dataset: uid %q must not contain a slash", uid)
	}
	return &Dataset{uid: uid}, nil
}

// UID returns the dataset identifier.
func (d *Dataset) UID() string {
	return d.uid
}

// AddObject appends a wrapped object and returns its index. Indices start
// at 0 and follow registration order.
func (d *Dataset) AddObject(w wrapper.Wrapper) int {
	d.wrappers = append(d.wrappers, w)
	return len(d.wrappers) - 1
}

// Objects returns the number of wrapped objects.
func (d *Dataset) Objects() int {
	return len(d.wrappers)
}
