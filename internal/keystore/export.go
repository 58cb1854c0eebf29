package keystore

import "strings"

// ExportForDispatch translates the credential map into the env-style names the
// dispatch layer and legacy integrations expect. The misspelled GEMENI alias
// must stay populated: existing installs read it.
func (s *Store) ExportForDispatch() map[string]string {
	keys := s.Load()
	env := make(map[string]string, len(keys)+1)

	for name, secret := range keys {
		switch name {
		case "openai":
			env["GPT_API_KEY"] = secret
		case "anthropic":
			env["CLAUDE_API_KEY"] = secret
		case "gemini":
			env["GEMINI_API_KEY"] = secret
			env["GEMENI_API_KEY"] = secret
		default:
			env[strings.ToUpper(name)+"_API_KEY"] = secret
		}
	}
	return env
}
