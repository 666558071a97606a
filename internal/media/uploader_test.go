package media

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/wpcom"
)

// fakeMediaClient записывает загрузки и падает на выбранных заголовках.
type fakeMediaClient struct {
	wpcom.Client

	added   []*wpcom.MediaItem
	guids   [][]string
	failOn  map[string]bool
	service string
}

func (f *fakeMediaClient) MediaAdd(_ context.Context, _ int, item *wpcom.MediaItem) (*wpcom.MediaListResponse, error) {
	if f.failOn[item.Title] {
		return nil, errors.New("upload rejected")
	}
	f.added = append(f.added, item)
	return &wpcom.MediaListResponse{
		Media: []wpcom.MediaItem{{ID: len(f.added), Title: item.Title, Date: item.Date}},
		Found: len(f.added),
	}, nil
}

func (f *fakeMediaClient) UploadExternalMedia(_ context.Context, _ int, service string, guids []string) (*wpcom.MediaListResponse, error) {
	f.service = service
	f.guids = append(f.guids, guids)
	return &wpcom.MediaListResponse{Media: []wpcom.MediaItem{{GUID: guids[0]}}}, nil
}

// Заглушки неиспользуемых методов интерфейса.
func (f *fakeMediaClient) MediaList(context.Context, int, url.Values) (*wpcom.MediaListResponse, error) {
	return &wpcom.MediaListResponse{}, nil
}
func (f *fakeMediaClient) SitesNew(context.Context, *domain.NewSiteParams) (*wpcom.NewSiteResponse, error) {
	return nil, nil
}

func TestAdd_SerializedWithAscendingDates(t *testing.T) {
	client := &fakeMediaClient{}
	u := NewUploader(client, nil)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u.now = func() time.Time { return now }

	files := []File{{Title: "one"}, {Title: "two"}, {Title: "three"}}
	results := u.Add(context.Background(), 42, files)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	// Порядок загрузки совпадает с порядком файлов.
	for i, item := range client.added {
		if item.Title != files[i].Title {
			t.Errorf("upload %d: expected %q, got %q", i, files[i].Title, item.Title)
		}
	}
	// Первый файл — самый старый.
	for i := 1; i < len(client.added); i++ {
		if client.added[i-1].Date >= client.added[i].Date {
			t.Errorf("dates must ascend: %q >= %q", client.added[i-1].Date, client.added[i].Date)
		}
	}
	// Даты смещены в будущее относительно текущего времени.
	first, err := time.Parse(time.RFC3339Nano, client.added[0].Date)
	if err != nil {
		t.Fatal(err)
	}
	if !first.After(now) {
		t.Errorf("transient date %v must be in the future of %v", first, now)
	}
}

func TestAdd_FailureDoesNotStopSeries(t *testing.T) {
	client := &fakeMediaClient{failOn: map[string]bool{"two": true}}
	u := NewUploader(client, nil)

	results := u.Add(context.Background(), 42, []File{{Title: "one"}, {Title: "two"}, {Title: "three"}})

	if results[0].Err != nil || results[2].Err != nil {
		t.Error("unrelated files must upload despite a failure")
	}
	if results[1].Err == nil {
		t.Error("failed file must carry its error")
	}
	if len(client.added) != 2 {
		t.Errorf("expected 2 successful uploads, got %d", len(client.added))
	}
}

func TestAddExternal(t *testing.T) {
	client := &fakeMediaClient{}
	u := NewUploader(client, nil)

	results := u.AddExternal(context.Background(), 42, "google_photos", []File{
		{GUID: "g-1"}, {GUID: "g-2"},
	})

	if client.service != "google_photos" {
		t.Errorf("unexpected service: %q", client.service)
	}
	// Каждый файл уходит отдельным запросом, по порядку.
	if len(client.guids) != 2 || client.guids[0][0] != "g-1" || client.guids[1][0] != "g-2" {
		t.Errorf("unexpected guid batches: %v", client.guids)
	}
	if results[0].Item == nil || results[0].Item.GUID != "g-1" {
		t.Errorf("unexpected result item: %+v", results[0].Item)
	}
}
