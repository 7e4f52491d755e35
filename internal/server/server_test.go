package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SmitUplenchwar2687/easytime/internal/clock"
	"github.com/SmitUplenchwar2687/easytime/internal/offset"
	"github.com/SmitUplenchwar2687/easytime/internal/recorder"
	"github.com/SmitUplenchwar2687/easytime/internal/storage"
)

var epoch = time.Date(2024, 1, 31, 9, 30, 0, 0, time.UTC)

func startTestServer(t *testing.T, clk clock.Clock, opts Options) (string, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	if opts.Zone == "" {
		opts.Zone = "utc"
	}
	srv := New(ln.Addr().String(), clk, opts)
	go srv.StartOnListener(ln)
	baseURL := "http://" + ln.Addr().String()
	return baseURL, func() {
		srv.Shutdown(context.Background())
	}
}

func getJSON(t *testing.T, u string, v any) int {
	t.Helper()
	resp, err := http.Get(u)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decoding %s: %v", u, err)
		}
	}
	return resp.StatusCode
}

func TestServer_Root(t *testing.T) {
	baseURL, cleanup := startTestServer(t, clock.NewVirtualClock(epoch), Options{})
	defer cleanup()

	var body map[string]string
	if status := getJSON(t, baseURL+"/", &body); status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if body["service"] != "easytime" {
		t.Errorf("service = %q, want %q", body["service"], "easytime")
	}
	if body["time"] != "2024-01-31T09:30:00Z" {
		t.Errorf("time = %q, want virtual clock time", body["time"])
	}
}

func TestServer_HealthAndNotFound(t *testing.T) {
	baseURL, cleanup := startTestServer(t, clock.NewVirtualClock(epoch), Options{})
	defer cleanup()

	if status := getJSON(t, baseURL+"/health", nil); status != http.StatusOK {
		t.Errorf("health status = %d, want 200", status)
	}
	if status := getJSON(t, baseURL+"/nonexistent", nil); status != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", status)
	}
}

func TestServer_RequestID(t *testing.T) {
	baseURL, cleanup := startTestServer(t, clock.NewVirtualClock(epoch), Options{})
	defer cleanup()

	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Errorf("missing %s header", RequestIDHeader)
	}
}

func TestServer_Offset(t *testing.T) {
	vc := clock.NewVirtualClock(epoch)
	baseURL, cleanup := startTestServer(t, vc, Options{})
	defer cleanup()

	tests := []struct {
		query string
		want  time.Time
	}{
		{"value=1&unit=months", time.Date(2024, 2, 29, 9, 30, 0, 0, time.UTC)},
		{"value=1&unit=month&from=2023-01-31T09:30:00Z", time.Date(2023, 2, 28, 9, 30, 0, 0, time.UTC)},
		{"value=3&unit=days&direction=ago", time.Date(2024, 1, 28, 9, 30, 0, 0, time.UTC)},
		{"value=1&unit=century&from=2000-02-29", time.Date(2100, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"value=0&unit=years", epoch},
	}
	for _, tt := range tests {
		var got OffsetResponse
		if status := getJSON(t, baseURL+"/api/offset?"+tt.query, &got); status != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", tt.query, status)
			continue
		}
		if !got.Result.Equal(tt.want) {
			t.Errorf("%s: result = %v, want %v", tt.query, got.Result, tt.want)
		}
		if got.Timestamp != tt.want.Unix() {
			t.Errorf("%s: timestamp = %d, want %d", tt.query, got.Timestamp, tt.want.Unix())
		}
	}
}

func TestServer_OffsetFormatting(t *testing.T) {
	baseURL, cleanup := startTestServer(t, clock.NewVirtualClock(epoch), Options{})
	defer cleanup()

	var got OffsetResponse
	getJSON(t, baseURL+"/api/offset?value=1&unit=days&format="+url.QueryEscape("%d/%m/%Y")+"&timezone=true", &got)
	if got.Formatted != "01/02/2024 UTC" {
		t.Errorf("formatted = %q, want %q", got.Formatted, "01/02/2024 UTC")
	}
}

func TestServer_OffsetErrors(t *testing.T) {
	baseURL, cleanup := startTestServer(t, clock.NewVirtualClock(epoch), Options{})
	defer cleanup()

	tests := []struct {
		query string
		want  int
	}{
		{"value=x&unit=days", http.StatusBadRequest},
		{"value=1&unit=fortnights", http.StatusBadRequest},
		{"value=1&unit=days&direction=sideways", http.StatusBadRequest},
		{"value=1&unit=days&zone=mars", http.StatusBadRequest},
		{"value=1&unit=days&from=yesterday", http.StatusBadRequest},
		{"value=1&unit=days&from=anchor:missing", http.StatusNotFound},
		{"value=300000&unit=years", http.StatusUnprocessableEntity},
		{"value=9223372036854775807&unit=hours", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		var body map[string]string
		if status := getJSON(t, baseURL+"/api/offset?"+tt.query, &body); status != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.query, status, tt.want)
		}
		if body["error"] == "" {
			t.Errorf("%s: missing error message", tt.query)
		}
	}
}

func TestServer_Shift(t *testing.T) {
	baseURL, cleanup := startTestServer(t, clock.NewVirtualClock(epoch), Options{})
	defer cleanup()

	var got OffsetResponse
	if status := getJSON(t, baseURL+"/api/shift?duration=P15DT10H", &got); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	want := epoch.Add(370 * time.Hour)
	if !got.Result.Equal(want) {
		t.Errorf("result = %v, want %v", got.Result, want)
	}

	if status := getJSON(t, baseURL+"/api/shift?duration=soon", nil); status != http.StatusBadRequest {
		t.Errorf("bad duration status = %d, want 400", status)
	}
	for _, d := range []string{"P300Y", "PT9999999999H"} {
		var body map[string]string
		if status := getJSON(t, baseURL+"/api/shift?duration="+d, &body); status != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want 422", d, status)
		}
		if body["error"] == "" {
			t.Errorf("%s: missing error message", d)
		}
	}
}

// downStorage fails every call the way a store with a lost connection does.
type downStorage struct{}

var errDown = errors.New("dial tcp 127.0.0.1:6379: connection refused")

func (downStorage) Get(context.Context, string) (time.Time, error) {
	return time.Time{}, errDown
}

func (downStorage) Set(context.Context, string, time.Time, time.Duration) error {
	return errDown
}

func (downStorage) Delete(context.Context, string) error {
	return errDown
}

func (downStorage) List(context.Context) ([]storage.Anchor, error) {
	return nil, errDown
}

func (downStorage) Close() error {
	return nil
}

func TestServer_StorageFailureIsServerError(t *testing.T) {
	baseURL, cleanup := startTestServer(t, clock.NewVirtualClock(epoch), Options{Storage: downStorage{}})
	defer cleanup()

	for _, path := range []string{
		"/api/anchors/release",
		"/api/anchors",
		"/api/offset?value=1&unit=days&from=anchor:release",
		"/api/format?at=anchor:release",
	} {
		if status := getJSON(t, baseURL+path, nil); status != http.StatusInternalServerError {
			t.Errorf("GET %s status = %d, want 500", path, status)
		}
	}

	req, _ := http.NewRequest(http.MethodPut, baseURL+"/api/anchors/release", strings.NewReader(`{"at": "2024-01-01"}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("PUT status = %d, want 500", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrapped: %w", offset.ErrOverflow), http.StatusUnprocessableEntity},
		{badRequest(fmt.Errorf("x: %w", offset.ErrOverflow)), http.StatusUnprocessableEntity},
		{storage.ErrNotFound, http.StatusNotFound},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{fmt.Errorf("%w \"x\"", offset.ErrUnknownUnit), http.StatusBadRequest},
		{offset.ErrUnknownDirection, http.StatusBadRequest},
		{offset.ErrUnitKind, http.StatusBadRequest},
		{storage.ErrInvalidName, http.StatusBadRequest},
		{storage.ErrInvalidReference, http.StatusBadRequest},
		{badRequest(errors.New("unknown zone")), http.StatusBadRequest},
		{errDown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestServer_Leap(t *testing.T) {
	baseURL, cleanup := startTestServer(t, clock.NewVirtualClock(epoch), Options{})
	defer cleanup()

	for year, want := range map[string]bool{"2024": true, "2023": false, "1900": false, "2000": true} {
		var got LeapResponse
		if status := getJSON(t, baseURL+"/api/leap/"+year, &got); status != http.StatusOK {
			t.Errorf("%s: status = %d", year, status)
		}
		if got.Leap != want {
			t.Errorf("%s: leap = %v, want %v", year, got.Leap, want)
		}
		if want && got.DaysInFebruary != 29 {
			t.Errorf("%s: february = %d, want 29", year, got.DaysInFebruary)
		}
	}
	if status := getJSON(t, baseURL+"/api/leap/nope", nil); status != http.StatusBadRequest {
		t.Errorf("bad year status = %d, want 400", status)
	}
}

func TestServer_Format(t *testing.T) {
	baseURL, cleanup := startTestServer(t, clock.NewVirtualClock(epoch), Options{})
	defer cleanup()

	var got FormatResponse
	getJSON(t, baseURL+"/api/format", &got)
	if got.Formatted != "2024-01-31 09:30:00" || got.Date != "2024-01-31" || got.Time != "09:30:00" {
		t.Errorf("format now = %+v", got)
	}
	if !got.Leap {
		t.Error("2024 should be reported as leap")
	}

	getJSON(t, baseURL+"/api/format?at=2023-07-04T12:00:00Z&timezone=true", &got)
	if got.Formatted != "2023-07-04 12:00:00 UTC" {
		t.Errorf("formatted = %q", got.Formatted)
	}
}

func TestServer_Anchors(t *testing.T) {
	vc := clock.NewVirtualClock(epoch)
	baseURL, cleanup := startTestServer(t, vc, Options{})
	defer cleanup()

	put := func(name, body string) int {
		req, _ := http.NewRequest(http.MethodPut, baseURL+"/api/anchors/"+name, strings.NewReader(body))
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if status := put("release", `{"at": "2000-02-29T00:00:00Z"}`); status != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200", status)
	}
	if status := put("now", ``); status != http.StatusOK {
		t.Fatalf("PUT without body status = %d, want 200", status)
	}
	if status := put("temp", `{"at": "2024-01-01", "ttl": "1h"}`); status != http.StatusOK {
		t.Fatalf("PUT with ttl status = %d, want 200", status)
	}
	if status := put("bad", `{"ttl": "forever"}`); status != http.StatusBadRequest {
		t.Errorf("PUT bad ttl status = %d, want 400", status)
	}

	var a storage.Anchor
	getJSON(t, baseURL+"/api/anchors/now", &a)
	if !a.At.Equal(epoch) {
		t.Errorf("anchor now = %v, want %v", a.At, epoch)
	}

	var off OffsetResponse
	getJSON(t, baseURL+"/api/offset?value=1&unit=years&from=anchor:release", &off)
	if want := time.Date(2001, 2, 28, 0, 0, 0, 0, time.UTC); !off.Result.Equal(want) {
		t.Errorf("offset from anchor = %v, want %v", off.Result, want)
	}

	vc.Advance(2 * time.Hour)
	var list []storage.Anchor
	getJSON(t, baseURL+"/api/anchors", &list)
	if len(list) != 2 || list[0].Name != "now" || list[1].Name != "release" {
		t.Errorf("list after ttl = %+v, want [now release]", list)
	}

	req, _ := http.NewRequest(http.MethodDelete, baseURL+"/api/anchors/release", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", resp.StatusCode)
	}
	if status := getJSON(t, baseURL+"/api/anchors/release", nil); status != http.StatusNotFound {
		t.Errorf("GET deleted status = %d, want 404", status)
	}
}

func TestServer_RecordsOffsets(t *testing.T) {
	rec := recorder.New(nil)
	baseURL, cleanup := startTestServer(t, clock.NewVirtualClock(epoch), Options{Recorder: rec})
	defer cleanup()

	getJSON(t, baseURL+"/api/offset?value=1&unit=months", nil)
	getJSON(t, baseURL+"/api/offset?value=300000&unit=years", nil)
	getJSON(t, baseURL+"/api/shift?duration=90m&direction=past", nil)
	getJSON(t, baseURL+"/api/offset?value=1&unit=fortnights", nil) // rejected before evaluation

	records := rec.Records()
	if len(records) != 3 {
		t.Fatalf("recorded %d offsets, want 3", len(records))
	}
	if records[0].Result == nil || records[0].Error != "" {
		t.Errorf("records[0] = %+v, want a result", records[0])
	}
	if records[1].Error == "" {
		t.Errorf("records[1] = %+v, want overflow error", records[1])
	}
	if records[2].Kind != recorder.KindShift || records[2].Duration != "90m" {
		t.Errorf("records[2] = %+v, want shift", records[2])
	}
}

func TestServer_WebSocketBroadcast(t *testing.T) {
	hub := NewHub(nil)
	baseURL, cleanup := startTestServer(t, clock.NewVirtualClock(epoch), Options{Hub: hub})
	defer cleanup()

	wsURL := "ws" + strings.TrimPrefix(baseURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	getJSON(t, baseURL+"/api/offset?value=1&unit=months", nil)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev recorder.OffsetEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Record.Unit != "months" || ev.Formatted != "2024-02-29 09:30:00" {
		t.Errorf("event = %+v", ev)
	}
}
