package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/crimson-sun/artisanize/internal/connector"
	"github.com/crimson-sun/artisanize/internal/model"
)

func init() {
	connector.Register(connector.ProviderFile, func(connector.Config) connector.Source {
		return &Source{}
	})
}

// Source reads a roast export saved as a local JSON file.
type Source struct{}

// Fetch reads path and decodes the JSON object it contains.
func (s *Source) Fetch(ctx context.Context, path string) (model.RoastRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.RoastRecord{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.RoastRecord{}, &connector.RetrievalError{Provider: connector.ProviderFile, Ref: path, Err: err}
	}
	var rec model.RoastRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.RoastRecord{}, &connector.RetrievalError{
			Provider: connector.ProviderFile,
			Ref:      path,
			Err:      fmt.Errorf("decode json: %w", err),
		}
	}
	return rec, nil
}
