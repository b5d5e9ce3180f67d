package chain

// Config holds the connection parameters for a Blockfrost-compatible
// ledger API.
type Config struct {
	URL       string `json:"url"`
	ProjectID string `json:"project_id"`
	Network   string `json:"network"`
}

// NetworkPresets contains default API endpoints for known networks. The
// project id is always caller-supplied; there is no anonymous access.
var NetworkPresets = map[string]string{
	"mainnet": "https://cardano-mainnet.blockfrost.io/api/v0",
	"preprod": "https://cardano-preprod.blockfrost.io/api/v0",
	"preview": "https://cardano-preview.blockfrost.io/api/v0",
}

// ResolveConfig fills in the endpoint for the named network unless an
// explicit URL overrides it, and requires a project id either way.
func ResolveConfig(cfg Config) (Config, error) {
	out := cfg
	if out.URL == "" {
		preset, ok := NetworkPresets[out.Network]
		if !ok {
			return Config{}, ErrUnknownNetwork
		}
		out.URL = preset
	}
	if out.ProjectID == "" {
		return Config{}, ErrMissingProjectID
	}
	return out, nil
}
