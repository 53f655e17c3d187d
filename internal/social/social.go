// Package social cross-posts newly published artworks to the marketplace's
// social media account.
package social

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-mastodon"
)

var ErrNotConfigured = errors.New("social posting not configured")

type Poster interface {
	Post(ctx context.Context, image []byte, caption string) error
}

// Mastodon posts an image status to a Mastodon-compatible account.
type Mastodon struct {
	client *mastodon.Client
}

func NewMastodon(server, accessToken string) *Mastodon {
	return &Mastodon{client: mastodon.NewClient(&mastodon.Config{
		Server:      server,
		AccessToken: accessToken,
	})}
}

func (m *Mastodon) Post(ctx context.Context, image []byte, caption string) error {
	att, err := m.client.UploadMediaFromReader(ctx, bytes.NewReader(image))
	if err != nil {
		return fmt.Errorf("mastodon upload: %w", err)
	}
	_, err = m.client.PostStatus(ctx, &mastodon.Toot{
		Status:     caption,
		MediaIDs:   []mastodon.ID{att.ID},
		Visibility: "public",
	})
	if err != nil {
		return fmt.Errorf("mastodon status: %w", err)
	}
	return nil
}

type Unconfigured struct{}

func (Unconfigured) Post(context.Context, []byte, string) error { return ErrNotConfigured }

// ComposeCaption appends the artist credit and price to the generated caption.
func ComposeCaption(caption, artist string, price int) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(caption))
	if artist = strings.TrimSpace(artist); artist != "" {
		b.WriteString("\n\nCrafted by ")
		b.WriteString(artist)
	}
	if price > 0 {
		fmt.Fprintf(&b, "\nAvailable on ArtConnect for ₹%d", price)
	}
	return strings.TrimSpace(b.String())
}
