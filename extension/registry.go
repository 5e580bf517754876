package extension

import (
	"sort"
	"sync"

	"github.com/viant/weaver/model/node"
)

// Registry provides node classes by type name
type Registry struct {
	classes map[string]*node.Class
	mux     sync.RWMutex
}

// Lookup returns a class by name
func (r *Registry) Lookup(name string) (*node.Class, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret, ok := r.classes[name]
	return ret, ok
}

// Metadata returns class metadata or nil when the class is unknown.
func (r *Registry) Metadata(name string) *node.Metadata {
	if class, ok := r.Lookup(name); ok {
		return class.Metadata()
	}
	return nil
}

// Register registers classes, existing entries with the same name are replaced.
func (r *Registry) Register(classes ...*node.Class) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, class := range classes {
		if class != nil {
			r.classes[class.Name()] = class
		}
	}
}

// Names returns sorted registered names
func (r *Registry) Names() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret := make([]string, 0, len(r.classes))
	for name := range r.classes {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// NewRegistry creates a registry
func NewRegistry(classes ...*node.Class) *Registry {
	ret := &Registry{classes: make(map[string]*node.Class)}
	ret.Register(classes...)
	return ret
}
