package installer

import "strings"

type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}

// Enabled reports whether the transport toggled on in TransportStep.
func (s *InstallState) Enabled(transport string) bool {
	return s.EnvVars["GEODROP_ENABLE_"+strings.ToUpper(transport)] == "true"
}
