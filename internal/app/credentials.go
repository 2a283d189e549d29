package app

import (
	"fmt"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/config"
	"github.com/mindbox-cloud/mindbox-config/internal/domain/credentials"
)

// Credentials renders the EAS extra object with the notification extension
// entries merged into eas.build.experimental.ios.appExtensions. extraPath
// optionally names an existing extra object (YAML or JSON) to merge into.
func (m *Mindbox) Credentials(cfg *config.Config, extraPath string, format credentials.Format) ([]byte, error) {
	extra := map[string]interface{}{}
	if extraPath != "" {
		path := cfg.Project.Resolve(extraPath)
		data, err := m.fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read extra %s: %w", path, err)
		}
		if extra, err = credentials.Decode(data); err != nil {
			return nil, err
		}
	}

	merged, err := credentials.Merge(extra, cfg.Project.BundleIdentifier, cfg.Props)
	if err != nil {
		return nil, err
	}
	return credentials.Encode(merged, format)
}
