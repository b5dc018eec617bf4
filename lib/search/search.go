// Package search resolves free-text queries into schedule handles by
// combining the structured groups catalog with the site's professor
// search.
package search

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
	"sync"
	"timetable-backend/lib/schedule"
	"timetable-backend/lib/scrapers/rutapi"
	"timetable-backend/lib/scrapers/rutsite"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("search")

// the professors listing is the only person index the site exposes,
// there is no structured endpoint for it
const professorsPath = "depts/37/professors"

type Resolver struct {
	Api  *rutapi.Client
	Site *rutsite.Client
}

// Resolve produces candidate schedule handles for a query. The group
// catalog and the professor search run concurrently and the result is
// fail-atomic: if either source fails the whole search fails, so an
// incomplete candidate list is never presented as exhaustive.
func (r *Resolver) Resolve(ctx context.Context, query string) ([]schedule.Handle, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var groups, persons []schedule.Handle
	var errs []error
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	branch := func(out *[]schedule.Handle, fetch func(context.Context) ([]schedule.Handle, error)) {
		defer wg.Done()

		handles, err := fetch(subCtx)

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			// abort the other in-flight branch
			cancel()
			return
		}
		*out = handles
	}

	wg.Add(2)
	go branch(&groups, r.groupHandles)
	go branch(&persons, func(ctx context.Context) ([]schedule.Handle, error) {
		return r.personHandles(ctx, query)
	})
	wg.Wait()

	if len(errs) > 0 {
		err := errors.Join(errs...)
		span.RecordError(err)
		span.SetStatus(codes.Error, "search branch failed")
		return nil, err
	}

	handles := append(groups, persons...)
	rankHandles(handles, query)
	return handles, nil
}

// groupHandles flattens the institute/course/specialty tree of the
// catalog into one handle per group.
func (r *Resolver) groupHandles(ctx context.Context) ([]schedule.Handle, error) {
	catalog, err := r.Api.GroupsCatalog(ctx)
	if err != nil {
		return nil, err
	}

	var handles []schedule.Handle
	for _, institute := range catalog.Institutes {
		for _, course := range institute.Courses {
			for _, specialty := range course.Specialties {
				for _, group := range specialty.Groups {
					handles = append(handles, schedule.Handle{
						Name:   group.Name,
						Source: schedule.SourceGroup,
						URL:    r.Api.EntityURL("groups", group.ID),
					})
				}
			}
		}
	}
	return handles, nil
}

// personHandles scrapes the professors listing filtered by the query.
func (r *Resolver) personHandles(ctx context.Context, query string) ([]schedule.Handle, error) {
	doc, err := r.Site.GetDocument(ctx, professorsPath+"?query="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	var handles []schedule.Handle
	doc.Find(".search__people").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a")
		href := link.AttrOr("href", "")
		// person links point at the timetable page through its locator,
		// only the last path segment matters
		if i := strings.LastIndex(href, "/"); i >= 0 {
			href = href[i+1:]
		}
		handles = append(handles, schedule.Handle{
			Name:   strings.TrimSpace(link.Text()),
			Source: schedule.SourcePerson,
			URL:    r.Site.ResolveHref(href),
		})
	})
	return handles, nil
}

// rankHandles sorts handles by name similarity to the query, best
// match first. An empty query keeps catalog order.
func rankHandles(handles []schedule.Handle, query string) {
	if query == "" {
		return
	}
	query = strings.ToLower(query)
	sort.SliceStable(handles, func(i, j int) bool {
		left := matchr.JaroWinkler(strings.ToLower(handles[i].Name), query, false)
		right := matchr.JaroWinkler(strings.ToLower(handles[j].Name), query, false)
		return left > right
	})
}
