package store

import (
	"context"
	"errors"
	"testing"

	"github.com/artconnect/marketplace/internal/models"
	"github.com/artconnect/marketplace/internal/testutil"
)

func newStores(t *testing.T) (*UserStore, *ArtworkStore) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewUserStore(db), NewArtworkStore(db)
}

func seedDraft(t *testing.T, users *UserStore, arts *ArtworkStore, phone string) *models.Artwork {
	t.Helper()
	ctx := context.Background()
	if _, _, err := users.GetOrCreateSkeleton(ctx, phone); err != nil {
		t.Fatalf("create user: %v", err)
	}
	lo, hi := 300, 700
	art := &models.Artwork{
		OwnerPhone:    phone,
		ImageData:     []byte{0xff, 0xd8, 0xff},
		ImageType:     "image/jpeg",
		Voice:         "hand painted madhubani fish",
		ArtForm:       "Madhubani",
		Title:         "River of Longing",
		PolishedVoice: "A hand-painted Madhubani fish.",
		MinPrice:      &lo,
		MaxPrice:      &hi,
	}
	if err := arts.CreateDraft(ctx, art); err != nil {
		t.Fatalf("create draft: %v", err)
	}
	return art
}

func TestGetOrCreateSkeleton(t *testing.T) {
	users, _ := newStores(t)
	ctx := context.Background()

	user, needsProfile, err := users.GetOrCreateSkeleton(ctx, "+1555")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !needsProfile || !user.IsNew {
		t.Fatalf("expected new user, got needsProfile=%v is_new=%v", needsProfile, user.IsNew)
	}
	if user.FullName != "" {
		t.Fatalf("expected empty name, got %q", user.FullName)
	}

	// Second login before profile setup still needs a profile.
	_, needsProfile, err = users.GetOrCreateSkeleton(ctx, "+1555")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !needsProfile {
		t.Fatal("expected profile setup to still be required")
	}

	loc := "Jaipur"
	updated, err := users.UpdateProfile(ctx, "+1555", ProfileUpdate{FullName: "Asha", Location: &loc, Role: models.RoleArtisan})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.IsNew || updated.FullName != "Asha" || updated.Location == nil || *updated.Location != "Jaipur" {
		t.Fatalf("unexpected profile after update: %+v", updated)
	}

	_, needsProfile, err = users.GetOrCreateSkeleton(ctx, "+1555")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if needsProfile {
		t.Fatal("expected is_new to stay false after profile setup")
	}
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	users, _ := newStores(t)

	_, err := users.UpdateProfile(context.Background(), "+1999", ProfileUpdate{FullName: "Nobody", Role: models.RoleBuyer})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateDraftForcesDraftState(t *testing.T) {
	users, arts := newStores(t)
	ctx := context.Background()
	if _, _, err := users.GetOrCreateSkeleton(ctx, "+1555"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	price := 900
	art := &models.Artwork{OwnerPhone: "+1555", ImageData: []byte("img"), Title: "x", Price: &price, IsPublished: true}
	if err := arts.CreateDraft(ctx, art); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	got, err := arts.Get(ctx, art.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IsPublished || got.Price != nil {
		t.Fatalf("expected unpriced draft, got published=%v price=%v", got.IsPublished, got.Price)
	}
	if _, err := arts.GetPublished(ctx, art.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected draft to be hidden from published lookup, got %v", err)
	}
}

func TestPublish(t *testing.T) {
	users, arts := newStores(t)
	ctx := context.Background()
	art := seedDraft(t, users, arts, "+1555")

	var hookOwner string
	published, err := arts.Publish(ctx, art.ID, 500, func(a *models.Artwork, owner *models.User) error {
		hookOwner = owner.Phone
		return nil
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !published.IsPublished || published.Price == nil || *published.Price != 500 {
		t.Fatalf("unexpected published artwork: %+v", published)
	}
	if hookOwner != "+1555" {
		t.Fatalf("expected hook to see owner +1555, got %q", hookOwner)
	}

	got, err := arts.GetPublished(ctx, art.ID)
	if err != nil {
		t.Fatalf("get published: %v", err)
	}
	if *got.Price != 500 {
		t.Fatalf("expected stored price 500, got %d", *got.Price)
	}
}

func TestPublishHookFailureRollsBack(t *testing.T) {
	users, arts := newStores(t)
	ctx := context.Background()
	art := seedDraft(t, users, arts, "+1555")

	hookErr := errors.New("index down")
	_, err := arts.Publish(ctx, art.ID, 500, func(*models.Artwork, *models.User) error { return hookErr })
	if !errors.Is(err, hookErr) {
		t.Fatalf("expected hook error, got %v", err)
	}

	got, err := arts.Get(ctx, art.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IsPublished || got.Price != nil {
		t.Fatalf("expected draft to be untouched, got published=%v price=%v", got.IsPublished, got.Price)
	}
}

func TestPublishUnknown(t *testing.T) {
	_, arts := newStores(t)

	_, err := arts.Publish(context.Background(), 42, 100, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	users, arts := newStores(t)
	ctx := context.Background()
	art := seedDraft(t, users, arts, "+1555")

	tests := []struct {
		name  string
		id    uint
		phone string
		want  error
	}{
		{name: "unknown id", id: art.ID + 100, phone: "+1555", want: ErrNotFound},
		{name: "other owner", id: art.ID, phone: "+1666", want: ErrForbidden},
		{name: "owner", id: art.ID, phone: "+1555", want: nil},
		{name: "already deleted", id: art.ID, phone: "+1555", want: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := arts.Delete(ctx, tt.id, tt.phone)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	n, err := arts.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no artworks left, got %d", n)
	}
}

func TestForbiddenDeleteLeavesRow(t *testing.T) {
	users, arts := newStores(t)
	ctx := context.Background()
	art := seedDraft(t, users, arts, "+1555")

	if err := arts.Delete(ctx, art.ID, "+1666"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	got, err := arts.Get(ctx, art.ID)
	if err != nil {
		t.Fatalf("expected artwork to remain, got %v", err)
	}
	if got.Title != art.Title {
		t.Fatalf("expected unchanged title %q, got %q", art.Title, got.Title)
	}
}

func TestListings(t *testing.T) {
	users, arts := newStores(t)
	ctx := context.Background()
	first := seedDraft(t, users, arts, "+1555")
	second := seedDraft(t, users, arts, "+1555")
	seedDraft(t, users, arts, "+1777")

	own, err := arts.ListByOwner(ctx, "+1555")
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(own) != 2 {
		t.Fatalf("expected 2 artworks, got %d", len(own))
	}
	for _, a := range own {
		if len(a.ImageData) != 0 {
			t.Fatal("expected listing to omit image bytes")
		}
	}

	if _, err := arts.Publish(ctx, second.ID, 450, nil); err != nil {
		t.Fatalf("publish: %v", err)
	}

	published, err := arts.ListPublished(ctx, 10)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 1 || published[0].ID != second.ID {
		t.Fatalf("expected only artwork %d, got %+v", second.ID, published)
	}
	if published[0].Owner == nil || published[0].Owner.Phone != "+1555" {
		t.Fatal("expected owner to be preloaded")
	}

	byID, err := arts.PublishedByIDs(ctx, []uint{first.ID, second.ID, 999})
	if err != nil {
		t.Fatalf("published by ids: %v", err)
	}
	if len(byID) != 1 {
		t.Fatalf("expected 1 resolved artwork, got %d", len(byID))
	}
	if _, ok := byID[second.ID]; !ok {
		t.Fatalf("expected artwork %d to resolve", second.ID)
	}
}
