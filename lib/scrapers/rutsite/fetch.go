package rutsite

import (
	"context"
	"errors"
	"sync"
	"time"
	"timetable-backend/lib/schedule"
	"timetable-backend/lib/timezone"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// FetchLessons retrieves every lesson behind a schedule page, following
// the other timetable tabs one level deep. Sibling tab fetches run
// concurrently; the first failure cancels the rest and fails the whole
// operation. A partial week is never returned as success.
func (c *Client) FetchLessons(ctx context.Context, pageUrl string) ([]schedule.Lesson, error) {
	ctx, span := tracer.Start(ctx, "FetchLessons")
	defer span.End()
	span.SetAttributes(attribute.String("url", pageUrl))

	today := timezone.Today()

	root, err := c.fetchPage(ctx, pageUrl, today)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch root page")
		return nil, err
	}
	if len(root.Sublinks) == 0 {
		return root.Lessons, nil
	}

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lessons := root.Lessons
	var errs []error
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for _, link := range root.Sublinks {
		wg.Add(1)
		go func(link string) {
			defer wg.Done()

			sub, err := c.fetchPage(subCtx, link, today)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				// abort the in-flight sibling fetches
				cancel()
				return
			}
			lessons = append(lessons, sub.Lessons...)
		}(link)
	}
	wg.Wait()

	if len(errs) > 0 {
		err := errors.Join(errs...)
		span.RecordError(err)
		span.SetStatus(codes.Error, "sub-page fetch failed")
		return nil, err
	}
	return lessons, nil
}

func (c *Client) fetchPage(ctx context.Context, pageUrl string, today time.Time) (pageSchedule, error) {
	doc, err := c.GetDocument(ctx, pageUrl)
	if err != nil {
		return pageSchedule{}, err
	}
	return c.extractPage(ctx, doc, pageUrl, today)
}

// Fetcher adapts the client to the schedule.Fetcher capability.
type Fetcher struct {
	Client *Client
}

func (f Fetcher) Fetch(ctx context.Context, h schedule.Handle) ([]schedule.Lesson, error) {
	return f.Client.FetchLessons(ctx, h.URL)
}
