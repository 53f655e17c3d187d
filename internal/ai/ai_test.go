package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseAnalysis(t *testing.T) {
	valid := `{"art_form":"Warli","title":"Dance of the Harvest","polished_voice":"I painted this.","min_price":400,"max_price":900,"caption":"#warli"}`

	tests := []struct {
		name    string
		content string
		wantErr bool
		wantMin int
	}{
		{name: "plain json", content: valid, wantMin: 400},
		{name: "json fence", content: "```json\n" + valid + "\n```", wantMin: 400},
		{name: "bare fence", content: "```\n" + valid + "\n```", wantMin: 400},
		{name: "prose around object", content: "Here you go:\n" + valid + "\nEnjoy!", wantMin: 400},
		{name: "float prices", content: strings.Replace(valid, "400", "399.6", 1), wantMin: 400},
		{name: "not json", content: "I cannot help with that.", wantErr: true},
		{name: "missing title", content: `{"art_form":"Warli","min_price":1,"max_price":2}`, wantErr: true},
		{name: "missing art form", content: `{"title":"x","min_price":1,"max_price":2}`, wantErr: true},
		{name: "zero price", content: `{"art_form":"Warli","title":"x","min_price":0,"max_price":2}`, wantErr: true},
		{name: "inverted range", content: `{"art_form":"Warli","title":"x","min_price":900,"max_price":400}`, wantErr: true},
		{name: "string prices", content: `{"art_form":"Warli","title":"x","min_price":"400","max_price":"900"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnalysis(tt.content)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedReply) {
					t.Fatalf("expected ErrMalformedReply, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got.MinPrice != tt.wantMin {
				t.Fatalf("expected min price %d, got %d", tt.wantMin, got.MinPrice)
			}
			if got.ArtForm != "Warli" || got.Title != "Dance of the Harvest" {
				t.Fatalf("unexpected analysis %+v", got)
			}
		})
	}
}

func TestUnconfigured(t *testing.T) {
	var u Unconfigured
	ctx := context.Background()

	if _, err := u.Analyze(ctx, nil, ""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured from Analyze, got %v", err)
	}
	if _, err := u.Embed(ctx, "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured from Embed, got %v", err)
	}
	if _, err := u.Transcribe(ctx, strings.NewReader(""), "a.m4a", "audio/mp4"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured from Transcribe, got %v", err)
	}
}
