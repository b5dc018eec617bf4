// Package rutsite scrapes the public HTML schedule pages of rut-miit.ru
// into canonical lesson records.
package rutsite

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
	"timetable-backend/lib/schedule"
	"timetable-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/rutsite")

const DefaultBaseURL = "https://rut-miit.ru/"

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

	telemetry.InstrumentResty(client, "scrapers/rutsite/http")

	return &Client{
		BaseURL:    baseUrl,
		Http:       client,
		Classifier: opts.Classifier,
	}, nil
}

// GetDocument fetches a page and parses it into a document tree.
func (c *Client) GetDocument(ctx context.Context, pageUrl string) (*goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		return nil, &schedule.TransportError{URL: pageUrl, Err: err}
	}
	if res.StatusCode() >= 400 {
		return nil, &schedule.TransportError{
			URL: pageUrl,
			Err: fmt.Errorf("unexpected status %q", res.Status()),
		}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, &schedule.ParseError{What: "html document", Text: pageUrl, Err: err}
	}
	return doc, nil
}

// ResolveHref makes a scraped href absolute against the client's base.
func (c *Client) ResolveHref(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return c.BaseURL.ResolveReference(ref).String()
}
