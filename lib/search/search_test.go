package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"timetable-backend/lib/schedule"
	"timetable-backend/lib/scrapers/rutapi"
	"timetable-backend/lib/scrapers/rutsite"

	"github.com/stretchr/testify/require"
)

const groupsCatalog = `{
	"institutes": [{
		"name": "Институт управления и цифровых технологий",
		"abbreviation": "ИУЦТ",
		"courses": [{
			"course": 1,
			"specialties": [{
				"name": "Информационные системы и технологии",
				"abbreviation": "ИСТ",
				"groups": [
					{"id": 11, "name": "ИУ5-11"},
					{"id": 12, "name": "ИУ5-12"}
				]
			}]
		}]
	}]
}`

const professorsPage = `<html><body>
<div class="search__people"><a href="/timetable/ivanov-i-i-1234">Иванов Иван Иванович</a></div>
<div class="search__people"><a href="/timetable/petrov-p-p-5678">Петров Пётр Петрович</a></div>
</body></html>`

type searchSite struct {
	catalogStatus    int
	professorsStatus int
	lastQuery        string
}

func (s *searchSite) server(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/data-service/data/timetable/groups-catalog", func(w http.ResponseWriter, r *http.Request) {
		if s.catalogStatus != 0 {
			http.Error(w, "internal error", s.catalogStatus)
			return
		}
		fmt.Fprint(w, groupsCatalog)
	})
	mux.HandleFunc("/depts/37/professors", func(w http.ResponseWriter, r *http.Request) {
		s.lastQuery = r.URL.Query().Get("query")
		if s.professorsStatus != 0 {
			http.Error(w, "internal error", s.professorsStatus)
			return
		}
		fmt.Fprint(w, professorsPage)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newResolver(t *testing.T, server *httptest.Server) *Resolver {
	api, err := rutapi.NewClient(rutapi.ClientOptions{BaseURL: server.URL + "/"})
	require.NoError(t, err)
	site, err := rutsite.NewClient(rutsite.ClientOptions{BaseURL: server.URL + "/"})
	require.NoError(t, err)
	return &Resolver{Api: api, Site: site}
}

func TestResolveMergesCatalogAndProfessors(t *testing.T) {
	site := &searchSite{}
	server := site.server(t)
	r := newResolver(t, server)

	handles, err := r.Resolve(context.Background(), "Иванов")
	require.NoError(t, err)
	require.Equal(t, "Иванов", site.lastQuery)
	require.Len(t, handles, 4)

	byName := map[string]schedule.Handle{}
	for _, h := range handles {
		byName[h.Name] = h
	}
	require.Equal(t, schedule.Handle{
		Name:   "ИУ5-11",
		Source: schedule.SourceGroup,
		URL:    server.URL + "/groups/11",
	}, byName["ИУ5-11"])
	require.Equal(t, schedule.Handle{
		Name:   "Иванов Иван Иванович",
		Source: schedule.SourcePerson,
		URL:    server.URL + "/ivanov-i-i-1234",
	}, byName["Иванов Иван Иванович"])
}

func TestResolveRanksByQuerySimilarity(t *testing.T) {
	site := &searchSite{}
	server := site.server(t)
	r := newResolver(t, server)

	handles, err := r.Resolve(context.Background(), "ИУ5-12")
	require.NoError(t, err)
	require.NotEmpty(t, handles)
	require.Equal(t, "ИУ5-12", handles[0].Name)

	handles, err = r.Resolve(context.Background(), "Петров")
	require.NoError(t, err)
	require.Equal(t, "Петров Пётр Петрович", handles[0].Name)
}

func TestResolveIsFailAtomic(t *testing.T) {
	site := &searchSite{professorsStatus: http.StatusInternalServerError}
	server := site.server(t)
	r := newResolver(t, server)

	handles, err := r.Resolve(context.Background(), "ИУ5-11")
	var transportErr *schedule.TransportError
	require.ErrorAs(t, err, &transportErr)
	// the catalog branch succeeded but its results must not leak out
	require.Nil(t, handles)

	site = &searchSite{catalogStatus: http.StatusInternalServerError}
	server = site.server(t)
	r = newResolver(t, server)

	handles, err = r.Resolve(context.Background(), "ИУ5-11")
	require.ErrorAs(t, err, &transportErr)
	require.Nil(t, handles)
}
