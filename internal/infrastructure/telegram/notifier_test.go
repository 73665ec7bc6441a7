package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ArgusIntel/internal/domain"
)

func highThreatRecord() domain.IntelligenceRecord {
	return domain.IntelligenceRecord{
		Article: domain.Article{
			Title: "Missile strike reported near border",
			URL:   "https://n.example/strike",
		},
		Level: domain.ThreatHigh,
		Alerts: []domain.Alert{{
			ID:          "alert-1",
			Type:        domain.AlertCriticalThreat,
			Level:       domain.ThreatHigh,
			Description: "Article contains high-level security content.",
		}},
	}
}

func TestPublishAlertsSendsMessage(t *testing.T) {
	var gotPath, gotChatID, gotText, gotMode string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotPath = r.URL.Path
		gotChatID = r.PostFormValue("chat_id")
		gotText = r.PostFormValue("text")
		gotMode = r.PostFormValue("parse_mode")
	}))
	defer server.Close()

	n := NewNotifier("bot-token", "chat-42")
	n.apiBase = server.URL

	if err := n.PublishAlerts(context.Background(), highThreatRecord()); err != nil {
		t.Fatalf("PublishAlerts: %v", err)
	}

	if gotPath != "/botbot-token/sendMessage" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotChatID != "chat-42" {
		t.Errorf("unexpected chat id %s", gotChatID)
	}
	if gotMode != "Markdown" {
		t.Errorf("unexpected parse mode %s", gotMode)
	}
	for _, want := range []string{"HIGH threat detected", "Missile strike reported near border", "critical_threat"} {
		if !strings.Contains(gotText, want) {
			t.Errorf("message missing %q:\n%s", want, gotText)
		}
	}
}

func TestPublishAlertsSkipsAlertlessRecords(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	n := NewNotifier("bot-token", "chat-42")
	n.apiBase = server.URL

	rec := highThreatRecord()
	rec.Alerts = nil
	if err := n.PublishAlerts(context.Background(), rec); err != nil {
		t.Fatalf("PublishAlerts: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no API call for alertless record, got %d", calls)
	}
}

func TestPublishAlertsMisconfigured(t *testing.T) {
	n := NewNotifier("", "")

	if err := n.PublishAlerts(context.Background(), highThreatRecord()); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestPublishAlertsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewNotifier("bot-token", "chat-42")
	n.apiBase = server.URL

	if err := n.PublishAlerts(context.Background(), highThreatRecord()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
