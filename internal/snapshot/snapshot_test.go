package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lodestar-idp/lodestar/internal/capability"
)

func seedStore(t *testing.T, ids ...string) capability.Store {
	t.Helper()
	store := capability.NewStore()
	for _, id := range ids {
		cap := capability.Capability{
			ID:          id,
			Name:        "Capability " + id,
			Description: "Test capability " + id,
			Maturity:    capability.MaturityDeployment,
			Phase:       capability.PhaseProduction,
			Templates: []capability.Template{{
				ID: id + "-tpl", Name: id + " template", Description: "scaffold",
				Version: "1.0.0", Maturity: capability.MaturityDeployment, Phase: capability.PhaseProduction,
			}},
		}
		require.NoError(t, store.Register(cap))
	}
	return store
}

func TestSaveLoad_RoundTripPreservesOrder(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	source := seedStore(t, "gamma", "alpha", "beta")

	require.NoError(t, fs.Save(source))

	restored := capability.NewStore()
	require.NoError(t, fs.Load(restored))

	list := restored.List()
	require.Len(t, list, 3)
	for i, id := range []string{"gamma", "alpha", "beta"} {
		require.Equal(t, id, list[i].ID, "position %d", i)
	}
	require.Len(t, list[0].Templates, 1)
	require.Equal(t, "gamma-tpl", list[0].Templates[0].ID)
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "never-created"))
	store := capability.NewStore()
	require.NoError(t, fs.Load(store), "missing snapshot is not an error")
	require.Empty(t, store.List())
}

func TestLoad_CorruptFile(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	require.NoError(t, os.WriteFile(fs.Path(), []byte("{not json"), 0o644))
	require.Error(t, fs.Load(capability.NewStore()))
}

func TestImport_ForwardDependencies(t *testing.T) {
	doc := Document{Capabilities: []capability.Capability{
		{
			ID: "app", Name: "App", Description: "Depends forward",
			Maturity: capability.MaturityGeneration, Phase: capability.PhaseDesign,
			Dependencies: []string{"base"},
		},
		{
			ID: "base", Name: "Base", Description: "Appears later",
			Maturity: capability.MaturityGeneration, Phase: capability.PhaseDesign,
		},
	}}

	store := capability.NewStore()
	require.NoError(t, Import(store, doc), "forward dependencies are legal at import")
	require.Len(t, store.List(), 2)
}

func TestImport_InvalidCapabilityFails(t *testing.T) {
	doc := Document{Capabilities: []capability.Capability{
		{ID: "bad", Name: "", Description: "no name", Maturity: capability.MaturityGeneration, Phase: capability.PhaseDesign},
	}}
	require.Error(t, Import(capability.NewStore(), doc))
}
