// Package restyutil dumps full request/response transcripts of scrape
// sessions to disk for offline debugging of upstream markup changes.
package restyutil

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type Output interface {
	Write(id string, contents string)
}

type FilesystemOutput struct {
	directory string
}

func NewFilesystemOutput(dir string) FilesystemOutput {
	os.RemoveAll(dir)
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		panic(err)
	}
	return FilesystemOutput{directory: dir}
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}

// DumpTranscripts writes every request/response pair the client sees to
// `output`, keyed by a per-client message counter.
func DumpTranscripts(client *resty.Client, output Output) {
	if output == nil {
		return
	}
	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := strconv.FormatUint(atomic.AddUint64(&idcounter, 1), 10)
		output.Write(id, formatHttpMessage(res))
		slog.Debug(
			"request transcript saved",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"message_id", id,
		)
		return nil
	})
}

func formatHeaders(headers http.Header) string {
	var out strings.Builder
	for k, vals := range headers {
		for _, v := range vals {
			out.WriteString(fmt.Sprintf("%s: %s\n", k, v))
		}
	}
	rendered := out.String()
	return strings.TrimSuffix(rendered, "\n")
}

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: response status
// 5: response url
// 6: response headers in ("Key: Value" format)
// 7: response body
const messageInfoTemplate = `---- REQUEST ----

%s %s

%s

---- RESPONSE ----

%s %s

%s

%s`

func formatHttpMessage(res *resty.Response) string {
	requestHeaders := ""
	if res.Request.RawRequest != nil {
		requestHeaders = formatHeaders(res.Request.RawRequest.Header)
	}

	responseUrl := res.Request.URL
	redirected, err := res.RawResponse.Location()
	if err == nil {
		responseUrl = redirected.String()
	}

	return fmt.Sprintf(
		messageInfoTemplate,

		res.Request.Method, res.Request.URL,
		requestHeaders,

		strconv.Itoa(res.StatusCode()), responseUrl,
		formatHeaders(res.Header()),
		res.String(),
	)
}
