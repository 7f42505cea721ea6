package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/genomehub/unisearch/pkg/sources"
)

func dialStream(t *testing.T, ts *httptest.Server, rawQuery string) *websocket.Conn {
	t.Helper()

	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("parsing server URL: %v", err)
	}
	u.Scheme = "ws"
	u.Path = "/api/search/stream"
	u.RawQuery = rawQuery

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", u, err)
	}
	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Logf("closing websocket: %v", err)
		}
	})
	return conn
}

// readStream collects messages until the summary arrives.
func readStream(t *testing.T, conn *websocket.Conn) ([]StreamMessage, StreamMessage) {
	t.Helper()

	var hits []StreamMessage
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("reading message: %v", err)
		}
		var msg StreamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshaling %s: %v", data, err)
		}
		switch msg.Type {
		case "hits":
			hits = append(hits, msg)
		case "summary":
			return hits, msg
		case "error":
			t.Fatalf("stream error: %s", msg.Error)
		default:
			t.Fatalf("unexpected message type %q", msg.Type)
		}
	}
}

func TestSearchStreamDeliversPerSourceHits(t *testing.T) {
	ts := newTestServer(t)
	conn := dialStream(t, ts, "species=homo_sapiens&q=rs699")

	hits, summary := readStream(t, conn)

	want := sources.DefaultCatalog().Names()
	if len(hits) != len(want) {
		t.Fatalf("got %d hits messages, want %d", len(hits), len(want))
	}
	// sources finish in completion order, so compare as a set
	seen := make(map[string]bool, len(hits))
	for _, msg := range hits {
		if msg.Hits == nil {
			t.Fatalf("hits message for %q has no payload", msg.Source)
		}
		seen[msg.Source] = true
	}
	for _, name := range want {
		if !seen[name] {
			t.Errorf("no hits message for %q", name)
		}
	}

	if summary.Summary == nil {
		t.Fatal("summary message has no payload")
	}
	if summary.Summary.TotalMatched != 1 || summary.Summary.TotalFetched != 1 {
		t.Errorf("summary totals = %d/%d", summary.Summary.TotalMatched, summary.Summary.TotalFetched)
	}
	// the summary restores catalog order
	for i, name := range summary.Summary.Sources {
		if name != want[i] {
			t.Fatalf("summary sources = %v, want %v", summary.Summary.Sources, want)
		}
	}

	// after the summary the server closes cleanly
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("expected normal closure, got %v", err)
	}
}

func TestSearchStreamNamedIndex(t *testing.T) {
	ts := newTestServer(t)
	conn := dialStream(t, ts, "species=homo_sapiens&index=gene&q=BRCA*")

	hits, summary := readStream(t, conn)

	if len(hits) != 1 || hits[0].Source != "gene" {
		t.Fatalf("hits = %+v", hits)
	}
	if hits[0].Hits.Matched != 2 || len(hits[0].Hits.Results) != 2 {
		t.Errorf("gene hits = %+v", hits[0].Hits)
	}
	if summary.Summary.TotalFetched != 2 {
		t.Errorf("summary = %+v", summary.Summary)
	}
}

func TestSearchStreamRejectsBadRequests(t *testing.T) {
	ts := newTestServer(t)

	for _, q := range []string{
		"species=homo_sapiens",
		"q=BRCA2",
		"species=nessie&q=BRCA2",
	} {
		resp, err := http.Get(ts.URL + "/api/search/stream?" + q)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		if err := resp.Body.Close(); err != nil {
			t.Errorf("closing body: %v", err)
		}
		if resp.StatusCode == http.StatusSwitchingProtocols || resp.StatusCode == http.StatusOK {
			t.Errorf("query %q: status %d, want an error", q, resp.StatusCode)
		}
	}
}
