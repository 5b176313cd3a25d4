package domain

// Defaults applied when the settings key is absent or emptied. The favicon
// and display strings mirror the deployment this service replaces.
const (
	DefaultTitle   = "猫咪体重本"
	DefaultFavicon = "https://p.929255.xyz/black-cat1.png"
	DefaultCatName = "我的猫咪"
)

// Settings holds display configuration and the ordered set of known cats.
type Settings struct {
	Title   string   `json:"title"`
	Favicon string   `json:"favicon"`
	Cats    []string `json:"cats"`
}

// DefaultSettings builds the lazily-created settings value. The seed list
// comes from deployment configuration and is used only on first run; an
// empty seed falls back to the single default cat.
func DefaultSettings(seedCats []string) Settings {
	s := Settings{Title: DefaultTitle, Favicon: DefaultFavicon, Cats: seedCats}
	s.Normalize()
	return s
}

// Normalize re-establishes the settings invariants: cats are trimmed of
// empty entries, deduplicated preserving order, and never empty.
func (s *Settings) Normalize() {
	seen := make(map[string]struct{}, len(s.Cats))
	cats := make([]string, 0, len(s.Cats))
	for _, name := range s.Cats {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		cats = append(cats, name)
	}
	if len(cats) == 0 {
		cats = []string{DefaultCatName}
	}
	s.Cats = cats
	if s.Title == "" {
		s.Title = DefaultTitle
	}
	if s.Favicon == "" {
		s.Favicon = DefaultFavicon
	}
}

// HasCat reports whether name is a known cat.
func (s Settings) HasCat(name string) bool {
	for _, cat := range s.Cats {
		if cat == name {
			return true
		}
	}
	return false
}

// EnsureCat registers name when unknown, returning true if the set changed.
// Auto-registration keeps record saves and imports working for cats that
// were never added through the settings form.
func (s *Settings) EnsureCat(name string) bool {
	if name == "" || s.HasCat(name) {
		return false
	}
	s.Cats = append(s.Cats, name)
	return true
}

// RemoveCat drops name from the known set, reinserting the default cat when
// the set would become empty. Returns true if the set changed.
func (s *Settings) RemoveCat(name string) bool {
	for i, cat := range s.Cats {
		if cat == name {
			s.Cats = append(s.Cats[:i], s.Cats[i+1:]...)
			if len(s.Cats) == 0 {
				s.Cats = []string{DefaultCatName}
			}
			return true
		}
	}
	return false
}
