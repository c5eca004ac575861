package roastworld

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/crimson-sun/artisanize/internal/connector"
	"github.com/crimson-sun/artisanize/internal/connector/httpclient"
	"github.com/crimson-sun/artisanize/internal/model"
)

const (
	DefaultEndpoint = "https://firebasestorage.googleapis.com"
	DefaultBucket   = "testaillio.appspot.com"
)

// roastURL matches share links such as https://roast.world/sweetmarias/roasts/<id>.
var roastURL = regexp.MustCompile(`roast\.world/[^/]+/roasts/([A-Za-z0-9_-]+)`)

func init() {
	connector.Register(connector.ProviderRoastWorld, func(cfg connector.Config) connector.Source {
		return New(cfg)
	})
}

// Source fetches roast exports from the roast.world Firebase storage bucket.
type Source struct {
	client *httpclient.Client
	bucket string
}

// New creates a Source. Empty Endpoint and Bucket fall back to the public
// roast.world storage.
func New(cfg connector.Config) *Source {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = DefaultBucket
	}
	var opts []httpclient.Option
	if cfg.Timeout > 0 {
		opts = append(opts, httpclient.WithTimeout(cfg.Timeout))
	}
	return &Source{
		client: httpclient.New(endpoint, cfg.Token, opts...),
		bucket: bucket,
	}
}

// ExtractRoastID returns the id from a roast.world share URL, or the trimmed
// input when it is not one.
func ExtractRoastID(input string) string {
	if m := roastURL.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	return strings.TrimSpace(input)
}

// ObjectPath returns the storage path of a roast export, with the object
// name escaped the way Firebase expects (roasts%2F<id>.json).
func (s *Source) ObjectPath(id string) string {
	return "/v0/b/" + url.PathEscape(s.bucket) + "/o/" + url.PathEscape("roasts/"+id+".json")
}

// Fetch downloads and decodes the roast export for an id or share URL.
func (s *Source) Fetch(ctx context.Context, ref string) (model.RoastRecord, error) {
	id := ExtractRoastID(ref)
	if id == "" {
		return model.RoastRecord{}, &connector.RetrievalError{
			Provider: connector.ProviderRoastWorld,
			Ref:      ref,
			Err:      fmt.Errorf("empty roast id"),
		}
	}

	q := url.Values{}
	q.Set("alt", "media")

	var rec model.RoastRecord
	if err := s.client.GetJSON(ctx, s.ObjectPath(id), q, &rec); err != nil {
		return model.RoastRecord{}, &connector.RetrievalError{
			Provider: connector.ProviderRoastWorld,
			Ref:      id,
			Err:      err,
		}
	}
	return rec, nil
}
