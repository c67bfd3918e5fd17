package annotation

// Unassigned is the class of an object id that has no class yet.
const Unassigned = -1

// Registry maps object ids (1-based, contiguous) to class ids. It only grows.
type Registry struct {
	classes []int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Len returns the number of registered object ids.
func (r *Registry) Len() int { return len(r.classes) }

// Use registers id, growing the registry with unassigned entries up to id.
// Non-positive ids are ignored.
func (r *Registry) Use(id int) {
	for len(r.classes) < id {
		r.classes = append(r.classes, Unassigned)
	}
}

// Assign registers id and sets its class.
func (r *Registry) Assign(id, class int) {
	if id < 1 {
		return
	}
	r.Use(id)
	r.classes[id-1] = class
}

// Class returns the class of id, Unassigned when unknown.
func (r *Registry) Class(id int) int {
	if id < 1 || id > len(r.classes) {
		return Unassigned
	}
	return r.classes[id-1]
}

// UnassignedIDs lists the ids that still have no class, ascending.
func (r *Registry) UnassignedIDs() []int {
	var ids []int
	for i, c := range r.classes {
		if c == Unassigned {
			ids = append(ids, i+1)
		}
	}
	return ids
}
