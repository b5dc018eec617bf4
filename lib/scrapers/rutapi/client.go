// Package rutapi talks to the structured public timetable API of
// rut-miit.ru and maps its event payloads into canonical lesson
// records.
package rutapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"
	"timetable-backend/lib/schedule"
	"timetable-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/rutapi")

const DefaultBaseURL = "https://rut-miit.ru/"

const (
	groupsCatalogPath = "data-service/data/timetable/groups-catalog"
	timetablesPath    = "api/v1b/public/timetable/v2/"
)

type Client struct {
	BaseURL *url.URL
	Http    *resty.Client
	// Classifier may carry an observer for newly seen type labels; nil
	// falls back to plain classification.
	Classifier *schedule.Classifier
}

type ClientOptions struct {
	// defaults to DefaultBaseURL
	BaseURL    string
	Classifier *schedule.Classifier
}

func NewClient(opts ClientOptions) (*Client, error) {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	baseUrl, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(base)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/rutapi/http")

	return &Client{
		BaseURL:    baseUrl,
		Http:       client,
		Classifier: opts.Classifier,
	}, nil
}

func getJson[T any](ctx context.Context, c *Client, path string, query map[string]string, what string) (T, error) {
	var out T

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return out, &schedule.TransportError{URL: path, Err: err}
	}
	if res.StatusCode() >= 400 {
		return out, &schedule.TransportError{
			URL: path,
			Err: fmt.Errorf("unexpected status %q", res.Status()),
		}
	}

	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return out, &schedule.UpstreamShapeError{What: what, Err: err}
	}
	return out, nil
}

// GroupsCatalog retrieves the full institute/course/specialty/group
// tree used for group search.
func (c *Client) GroupsCatalog(ctx context.Context) (Institutes, error) {
	ctx, span := tracer.Start(ctx, "GroupsCatalog")
	defer span.End()

	return getJson[Institutes](ctx, c, groupsCatalogPath, nil, "groups catalog")
}

// Timetables enumerates the published revisions for an entity.
func (c *Client) Timetables(ctx context.Context, entityID string) (Timetables, error) {
	ctx, span := tracer.Start(ctx, "Timetables")
	defer span.End()

	return getJson[Timetables](ctx, c, timetablesPath+entityID, nil, "timetable list")
}

// Revision retrieves the event payload of one timetable revision.
func (c *Client) Revision(ctx context.Context, entityID, timetableID string) (Schedule, error) {
	ctx, span := tracer.Start(ctx, "Revision")
	defer span.End()

	return getJson[Schedule](
		ctx, c,
		timetablesPath+entityID,
		map[string]string{"timetableId": timetableID},
		"timetable revision",
	)
}
