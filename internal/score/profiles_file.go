package score

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadProfiles reads profiles from a YAML file and merges them over the
// built-in set. File entries are complete profile definitions; an entry
// replaces the built-in profile of the same name. Every resulting
// profile is validated; any failure aborts startup.
func LoadProfiles(path string) (map[string]Profile, error) {
	profiles := BuiltinProfiles()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "score: read profiles %s", path)
		}

		var wrapper struct {
			Profiles map[string]Profile `yaml:"profiles"`
		}
		if err := yaml.Unmarshal(data, &wrapper); err != nil {
			return nil, eris.Wrap(err, "score: parse profiles")
		}

		for name, p := range wrapper.Profiles {
			if p.Name == "" {
				p.Name = name
			}
			profiles[name] = p
		}
	}

	for name, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, eris.Wrapf(err, "score: profile %q", name)
		}
	}
	return profiles, nil
}
