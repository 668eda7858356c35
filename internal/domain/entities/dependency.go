package entities

// Dependency represents a package declared in a pubspec.yaml manifest.
type Dependency struct {
	Name     string // Package name as declared in the section
	Declared string // Rendered version specifier (e.g. "1.0.0")
	Manifest string // Manifest where this dependency was first found
}

// DependencySet is a collection of dependencies keyed by name.
// Each name appears at most once; the first declaration wins.
type DependencySet struct {
	order  []string
	byName map[string]Dependency
}

// NewDependencySet creates an empty dependency set.
func NewDependencySet() *DependencySet {
	return &DependencySet{
		byName: make(map[string]Dependency),
	}
}

// Add inserts the dependency unless its name is already present.
// It reports whether the dependency was added.
func (s *DependencySet) Add(dep Dependency) bool {
	if _, exists := s.byName[dep.Name]; exists {
		return false
	}
	s.byName[dep.Name] = dep
	s.order = append(s.order, dep.Name)
	return true
}

// Get returns the dependency registered under name.
func (s *DependencySet) Get(name string) (Dependency, bool) {
	dep, exists := s.byName[name]
	return dep, exists
}

// Len returns the number of distinct dependencies.
func (s *DependencySet) Len() int { return len(s.order) }

// Names returns the dependency names in insertion order.
func (s *DependencySet) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// All returns every dependency in insertion order.
func (s *DependencySet) All() []Dependency {
	result := make([]Dependency, 0, len(s.order))
	for _, name := range s.order {
		result = append(result, s.byName[name])
	}
	return result
}
