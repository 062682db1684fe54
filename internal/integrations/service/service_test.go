package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gtm_backend/internal/events"
	"gtm_backend/internal/integrations/repository"
	"gtm_backend/internal/integrations/transport"
	"gtm_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	conns    map[string]repository.Connection
	upserted []repository.UpsertConnectionParams
	err      error
}

func newFakeRepo(conns ...repository.Connection) *fakeRepo {
	r := &fakeRepo{conns: make(map[string]repository.Connection)}
	for _, c := range conns {
		r.conns[c.Provider] = c
	}
	return r
}

func (r *fakeRepo) ListConnections(context.Context, uuid.UUID) ([]repository.Connection, error) {
	out := make([]repository.Connection, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeRepo) UpsertConnection(_ context.Context, p repository.UpsertConnectionParams) (repository.Connection, bool, error) {
	if r.err != nil {
		return repository.Connection{}, false, r.err
	}
	r.upserted = append(r.upserted, p)
	prev, existed := r.conns[p.Provider]
	c := repository.Connection{
		WorkspaceID: p.WorkspaceID,
		Provider:    p.Provider,
		Status:      p.Status,
		Metadata:    p.Metadata,
		UpdatedAt:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if c.Metadata == nil {
		c.Metadata = prev.Metadata
	}
	r.conns[p.Provider] = c
	return c, !existed || prev.Status != p.Status, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.published = append(b.published, e)
}

func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}

func TestListMergesCatalogWithConnections(t *testing.T) {
	repo := newFakeRepo(
		repository.Connection{Provider: "clay", Status: "connected", Metadata: []byte(`{"team":"growth"}`)},
		repository.Connection{Provider: "heyreach", Status: "not_connected"},
		repository.Connection{Provider: "retired_tool", Status: "connected"},
	)
	svc := New(repo, nil, nil)

	resp, err := svc.List(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	byID := make(map[string]transport.IntegrationResponse)
	for _, i := range resp.Integrations {
		byID[i.ID] = i
	}
	if _, ok := byID["retired_tool"]; ok {
		t.Fatal("providers outside the catalog must not be listed")
	}
	if !byID["clay"].Connected || byID["clay"].Status != "connected" {
		t.Fatalf("clay = %+v, want connected", byID["clay"])
	}
	if string(byID["clay"].Metadata) != `{"team":"growth"}` {
		t.Fatalf("clay metadata = %s", byID["clay"].Metadata)
	}
	if byID["heyreach"].Connected {
		t.Fatal("heyreach should not be connected")
	}
	if byID["apollo"].Status != "not_connected" || byID["apollo"].UpdatedAt != nil {
		t.Fatalf("apollo = %+v, want untouched catalog entry", byID["apollo"])
	}
	if resp.Integrations[0].ID != "clay" {
		t.Fatalf("expected catalog order, first = %q", resp.Integrations[0].ID)
	}
}

func TestUpsertNormalizesAndPublishesOnChange(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := New(repo, nil, bus)
	ws := uuid.New()

	resp, err := svc.Upsert(context.Background(), ws, "Hey Reach", transport.UpsertConnectionRequest{Status: "ACTIVE"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if resp.ID != "heyreach" || !resp.Connected {
		t.Fatalf("resp = %+v", resp)
	}
	if repo.upserted[0].Provider != "heyreach" || repo.upserted[0].Status != "connected" {
		t.Fatalf("stored = %+v", repo.upserted[0])
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	e := bus.published[0].(events.IntegrationConnectionChanged)
	if e.WorkspaceID != ws || e.Provider != "heyreach" || e.Status != "connected" {
		t.Fatalf("event = %+v", e)
	}

	if _, err := svc.Upsert(context.Background(), ws, "heyreach", transport.UpsertConnectionRequest{Status: true}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatal("unchanged status must not publish")
	}

	if _, err := svc.Upsert(context.Background(), ws, "heyreach", transport.UpsertConnectionRequest{Status: false}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if len(bus.published) != 2 {
		t.Fatal("disconnect must publish")
	}
}

func TestUpsertErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		req      transport.UpsertConnectionRequest
		repoErr  error
		want     apperr.Kind
	}{
		{"unknown provider", "salesforce", transport.UpsertConnectionRequest{Status: "connected"}, nil, apperr.KindNotFound},
		{"missing status", "clay", transport.UpsertConnectionRequest{}, nil, apperr.KindValidation},
		{"array metadata", "clay", transport.UpsertConnectionRequest{Status: "connected", Metadata: json.RawMessage(`[1,2]`)}, nil, apperr.KindValidation},
		{"missing workspace", "clay", transport.UpsertConnectionRequest{Status: "connected"}, repository.ErrWorkspaceNotFound, apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			repo.err = tt.repoErr
			_, err := New(repo, nil, nil).Upsert(context.Background(), uuid.New(), tt.provider, tt.req)
			if got := apperr.GetKind(err); got != tt.want {
				t.Fatalf("kind = %v, want %v (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestNullMetadataKeepsStored(t *testing.T) {
	repo := newFakeRepo(repository.Connection{Provider: "clay", Status: "connected", Metadata: []byte(`{"a":1}`)})
	svc := New(repo, nil, nil)

	resp, err := svc.Upsert(context.Background(), uuid.New(), "clay", transport.UpsertConnectionRequest{
		Status:   "connected",
		Metadata: json.RawMessage(`null`),
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if repo.upserted[0].Metadata != nil {
		t.Fatalf("null metadata should be passed as nil, got %s", repo.upserted[0].Metadata)
	}
	if string(resp.Metadata) != `{"a":1}` {
		t.Fatalf("metadata = %s", resp.Metadata)
	}
}
