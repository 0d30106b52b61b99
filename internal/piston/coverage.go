package piston

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/programme-lv/smoke/api"
)

// MissingRuntimes returns the entries of wanted (language -> version) that are not
// installed, as sorted "language@version" strings. Aliases count as installed names;
// an empty version accepts any installed version.
func MissingRuntimes(installed []api.Runtime, wanted map[string]string) []string {
	have := mapset.NewSet[string]()
	names := mapset.NewSet[string]()
	for _, rt := range installed {
		for _, name := range append([]string{rt.Language}, rt.Aliases...) {
			names.Add(name)
			have.Add(runtimeKey(name, rt.Version))
		}
	}

	want := mapset.NewSetWithSize[string](len(wanted))
	for lang, version := range wanted {
		if version == "" {
			if !names.Contains(lang) {
				want.Add(runtimeKey(lang, "*"))
			}
			continue
		}
		want.Add(runtimeKey(lang, version))
	}

	missing := want.Difference(have).ToSlice()
	slices.Sort(missing)
	return missing
}

func runtimeKey(language, version string) string {
	return language + "@" + version
}
