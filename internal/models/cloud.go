package models

// CloudConfig is the connection descriptor for the remote document store.
// It lives in a local-only storage key and is never synced through the
// remote store itself.
type CloudConfig struct {
	Enabled bool   `json:"enabled"`
	BinID   string `json:"binId"`
	APIKey  string `json:"apiKey"`
}

// CloudMode is the resolved backend choice. The enabled flag plus the
// presence of credentials yields three distinct states, modeled explicitly
// instead of a boolean next to nullable strings.
type CloudMode int

const (
	// CloudModeLocal: no usable config anywhere, work against the local
	// store only.
	CloudModeLocal CloudMode = iota
	// CloudModeDisabled: a config exists but is explicitly switched off.
	CloudModeDisabled
	// CloudModeRemote: enabled with complete credentials.
	CloudModeRemote
)

func (m CloudMode) String() string {
	switch m {
	case CloudModeDisabled:
		return "disabled"
	case CloudModeRemote:
		return "remote"
	default:
		return "local"
	}
}

// usable reports whether the config selects the remote backend.
func (c *CloudConfig) usable() bool {
	return c != nil && c.Enabled && c.BinID != "" && c.APIKey != ""
}

// ResolveCloudMode picks the effective mode from the locally stored
// override and the injected fallback, in that order. The local override,
// when present, wins even if it disables an otherwise valid fallback.
func ResolveCloudMode(local, fallback *CloudConfig) (CloudMode, CloudConfig) {
	for _, c := range []*CloudConfig{local, fallback} {
		if c == nil {
			continue
		}
		if c.usable() {
			return CloudModeRemote, *c
		}
		if c.BinID != "" || c.APIKey != "" {
			return CloudModeDisabled, *c
		}
	}
	return CloudModeLocal, CloudConfig{}
}
