package responseformat

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type payload struct {
	SampleNumber string  `json:"sampleNumber"`
	Score        float64 `json:"score"`
}

func TestWantsMsgPack(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		accept string
		want   bool
	}{
		{"default", "/ratings", "", false},
		{"query", "/ratings?format=msgpack", "", true},
		{"accept header", "/ratings", ContentTypeMsgPack, true},
		{"json query", "/ratings?format=json", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if got := WantsMsgPack(req); got != tt.want {
				t.Errorf("WantsMsgPack = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriteResponse(t *testing.T) {
	f := NewFormatter()
	data := payload{SampleNumber: "2024-0117", Score: 73.1}

	t.Run("json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if err := f.WriteResponse(rec, req, data, map[string]string{"Cache-Control": "no-store"}); err != nil {
			t.Fatal(err)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if rec.Header().Get("Cache-Control") != "no-store" {
			t.Error("extra header not set")
		}
		var got payload
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		if got != data {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("msgpack uses json names", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/?format=msgpack", nil)
		if err := f.WriteResponse(rec, req, data, nil); err != nil {
			t.Fatal(err)
		}
		if ct := rec.Header().Get("Content-Type"); ct != ContentTypeMsgPack {
			t.Errorf("Content-Type = %q", ct)
		}
		var got map[string]any
		if err := msgpack.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if got["sampleNumber"] != "2024-0117" {
			t.Errorf("decoded %v", got)
		}
	})
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := NewFormatter().WriteError(rec, req, http.StatusNotFound, "sample not found", errors.New("no rows"))
	if err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "sample not found" || body.Details != "no rows" || body.Status != 404 || body.Timestamp == 0 {
		t.Errorf("body = %+v", body)
	}
}
