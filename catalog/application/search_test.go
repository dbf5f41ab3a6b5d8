package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/imagevault/imagevault/catalog/domain"
)

func uploadImage(t *testing.T, env *testEnv, ownerID int64, title, description, tags string) *domain.ImageRecord {
	t.Helper()

	record, err := env.svc.Upload(context.Background(), ownerID, strings.NewReader("img "+title), title+".jpg", title, description, tags)
	if err != nil {
		t.Fatalf("Upload %q failed: %v", title, err)
	}
	return record
}

func pageTitles(page *Page) []string {
	titles := make([]string, 0, len(page.Items))
	for _, img := range page.Items {
		titles = append(titles, img.Title)
	}
	return titles
}

func TestSearchPage_SubstringMatching(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.seedUser(t, "alice")
	stubClock(t, time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	uploadImage(t, env, ownerID, "Sunset Beach", "A warm evening on the coast", "ocean,sunset")
	uploadImage(t, env, ownerID, "City Lights", "Downtown at night", "night")

	tests := []struct {
		name       string
		query      string
		wantTitles []string
	}{
		{name: "tag match", query: "ocean", wantTitles: []string{"Sunset Beach"}},
		{name: "description match ignores case", query: "EVENING", wantTitles: []string{"Sunset Beach"}},
		{name: "title substring", query: "city", wantTitles: []string{"City Lights"}},
		{name: "shared substring matches both", query: "t", wantTitles: []string{"City Lights", "Sunset Beach"}},
		{name: "no match", query: "glacier", wantTitles: []string{}},
		{name: "empty query matches all", query: "", wantTitles: []string{"City Lights", "Sunset Beach"}},
		{name: "whitespace query matches all", query: "   ", wantTitles: []string{"City Lights", "Sunset Beach"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := env.svc.SearchPage(ctx, domain.AllImages(), ownerID, tt.query, 0, 10)
			if err != nil {
				t.Fatalf("SearchPage failed: %v", err)
			}

			got := pageTitles(page)
			if len(got) != len(tt.wantTitles) {
				t.Fatalf("got titles %v, want %v", got, tt.wantTitles)
			}
			for i, want := range tt.wantTitles {
				if got[i] != want {
					t.Errorf("titles[%d] = %q, want %q", i, got[i], want)
				}
			}
			if page.TotalCount != len(tt.wantTitles) {
				t.Errorf("TotalCount = %d, want %d", page.TotalCount, len(tt.wantTitles))
			}
		})
	}
}

func TestSearchPage_OwnerNameOnlyMatchesCatalogWide(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	bobID := env.seedUser(t, "bob")
	stubClock(t, time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	uploadImage(t, env, bobID, "Harbor", "boats at rest", "water")

	// Catalog-wide, the owner's username participates in matching.
	page, err := env.svc.SearchPage(ctx, domain.AllImages(), bobID, "bob", 0, 10)
	if err != nil {
		t.Fatalf("SearchPage failed: %v", err)
	}
	if page.TotalCount != 1 {
		t.Errorf("catalog-wide TotalCount = %d, want 1", page.TotalCount)
	}

	// Scoped to one owner, every record has the same owner and the username
	// is excluded from matching.
	page, err = env.svc.SearchPage(ctx, domain.OwnedBy(bobID), bobID, "bob", 0, 10)
	if err != nil {
		t.Fatalf("SearchPage failed: %v", err)
	}
	if page.TotalCount != 0 {
		t.Errorf("scoped TotalCount = %d, want 0", page.TotalCount)
	}
}

func TestSearchPage_IncludesSynthesizedRecords(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.seedUser(t, "alice")
	ctx := context.Background()

	env.writeBlob(t, "mountain-pass.jpg", time.Now())

	page, err := env.svc.SearchPage(ctx, domain.AllImages(), ownerID, "mountain", 0, 10)
	if err != nil {
		t.Fatalf("SearchPage failed: %v", err)
	}
	if page.TotalCount != 1 {
		t.Fatalf("TotalCount = %d, want 1", page.TotalCount)
	}
	if page.Items[0].Title != "mountain-pass" {
		t.Errorf("Title = %q, want %q", page.Items[0].Title, "mountain-pass")
	}
	if page.Items[0].ID != 0 {
		t.Errorf("synthesized match has ID %d, want 0", page.Items[0].ID)
	}
}

func TestListPage_Pagination(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.seedUser(t, "alice")
	stubClock(t, time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	uploadImage(t, env, ownerID, "Oldest", "", "")
	uploadImage(t, env, ownerID, "Middle", "", "")
	uploadImage(t, env, ownerID, "Newest", "", "")

	page, err := env.svc.ListPage(ctx, domain.AllImages(), ownerID, 1, 1)
	if err != nil {
		t.Fatalf("ListPage failed: %v", err)
	}

	if len(page.Items) != 1 || page.Items[0].Title != "Middle" {
		t.Errorf("page 1 titles = %v, want [Middle]", pageTitles(page))
	}
	if page.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", page.TotalCount)
	}
	if page.TotalPages() != 3 {
		t.Errorf("TotalPages = %d, want 3", page.TotalPages())
	}
	if page.PageNumber != 1 || page.PageSize != 1 {
		t.Errorf("PageNumber/PageSize = %d/%d, want 1/1", page.PageNumber, page.PageSize)
	}
}

func TestListPage_PastTheEnd(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.seedUser(t, "alice")
	stubClock(t, time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	uploadImage(t, env, ownerID, "Only", "", "")

	page, err := env.svc.ListPage(ctx, domain.AllImages(), ownerID, 7, 5)
	if err != nil {
		t.Fatalf("ListPage failed: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("past-the-end page has %d items, want 0", len(page.Items))
	}
	if page.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", page.TotalCount)
	}
}

func TestPagination_InvalidArguments(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.seedUser(t, "alice")
	ctx := context.Background()

	tests := []struct {
		name     string
		page     int
		pageSize int
	}{
		{name: "negative page", page: -1, pageSize: 10},
		{name: "zero page size", page: 0, pageSize: 0},
		{name: "negative page size", page: 0, pageSize: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.ListPage(ctx, domain.AllImages(), ownerID, tt.page, tt.pageSize)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("ListPage error = %v, want ErrInvalidArgument", err)
			}

			_, err = env.svc.SearchPage(ctx, domain.AllImages(), ownerID, "q", tt.page, tt.pageSize)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("SearchPage error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestPage_TotalPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		want     int
	}{
		{name: "exact fit", total: 10, pageSize: 5, want: 2},
		{name: "partial last page", total: 11, pageSize: 5, want: 3},
		{name: "empty set", total: 0, pageSize: 5, want: 0},
		{name: "single item", total: 1, pageSize: 12, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Page{TotalCount: tt.total, PageSize: tt.pageSize}
			if got := p.TotalPages(); got != tt.want {
				t.Errorf("TotalPages() = %d, want %d", got, tt.want)
			}
		})
	}
}
