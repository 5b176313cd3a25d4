package persistence

import (
	"go/types"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestStoreImplementationsHardening ensures only sanctioned persistence
// packages provide concrete implementations of the domain.Store interface.
// Adding a new backend requires an explicit update of the allowed list.
func TestStoreImplementationsHardening(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedTypes, Tests: true}
	pkgs, err := packages.Load(cfg, "github.com/zaocat/Purrfit/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	var store *types.Interface
	for _, p := range pkgs {
		if p.PkgPath == "github.com/zaocat/Purrfit/pkg/domain" {
			obj := p.Types.Scope().Lookup("Store")
			if obj == nil {
				t.Fatalf("domain.Store not found")
			}
			iface, ok := obj.Type().Underlying().(*types.Interface)
			if !ok {
				t.Fatalf("domain.Store is not an interface")
			}
			store = iface
		}
	}
	if store == nil {
		t.Fatalf("failed to resolve Store interface")
	}

	allowed := map[string]struct{}{
		"github.com/zaocat/Purrfit/internal/infra/persistence/memory":   {},
		"github.com/zaocat/Purrfit/internal/infra/persistence/sqlite":   {},
		"github.com/zaocat/Purrfit/internal/infra/persistence/postgres": {},
	}
	var unexpected []string
	for _, p := range pkgs {
		if p.Types == nil || p.Types.Scope() == nil {
			continue
		}
		for _, name := range p.Types.Scope().Names() {
			obj := p.Types.Scope().Lookup(name)
			named, ok := obj.Type().(*types.Named)
			if !ok {
				continue
			}
			if _, ok := named.Underlying().(*types.Struct); !ok {
				continue
			}
			if types.Implements(types.NewPointer(named), store) {
				if _, ok := allowed[p.PkgPath]; !ok {
					unexpected = append(unexpected, p.PkgPath+"."+name)
				}
			}
		}
	}
	if len(unexpected) > 0 {
		t.Fatalf("unexpected Store implementations (update the allowed list when adding a backend):\n%v", unexpected)
	}
}
