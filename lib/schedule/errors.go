package schedule

import "fmt"

// TransportError reports a network or HTTP-status failure talking to an
// upstream.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports upstream text or markup that did not match any
// expected pattern.
type ParseError struct {
	What string
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %q: %v", e.What, e.Text, e.Err)
	}
	return fmt.Sprintf("parse %s: %q", e.What, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UpstreamShapeError reports a structured API payload missing expected
// fields.
type UpstreamShapeError struct {
	What string
	Err  error
}

func (e *UpstreamShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected upstream shape: %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("unexpected upstream shape: %s", e.What)
}

func (e *UpstreamShapeError) Unwrap() error { return e.Err }
