package policy

import "gopkg.in/yaml.v3"

// DefaultSearchPath is the PATH handed to every target unless overridden.
const DefaultSearchPath = "/usr/local/bin:/usr/local/sbin:/usr/pkg/bin:/usr/pkg/sbin:/usr/bin:/usr/sbin:/bin:/sbin:/usr/games:/usr/X11R6/bin"

// Policy is the configuration resolved for one target directory.
// RootDir and FromGroup are empty when unset.
type Policy struct {
	BaseDir      string `yaml:"basedir"`
	DirMatchUser bool   `yaml:"dirmatchuser"`
	SearchPath   string `yaml:"path"`
	RootDir      string `yaml:"rootdir,omitempty"`
	ScriptsOnly  bool   `yaml:"scriptsonly"`
	FromGroup    string `yaml:"fromgroup,omitempty"`
}

// Default returns the built-in policy used before any config line applies.
func Default() Policy {
	return Policy{
		BaseDir:      "/usr/local/msudir",
		DirMatchUser: true,
		SearchPath:   DefaultSearchPath,
	}
}

// YAML renders the policy in the form printed by check-config.
func (p Policy) YAML() (string, error) {
	out, err := yaml.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
