// Playlist Bridge - pushes city playlists into Discord channels
// License: MIT
//
// Copyright (c) 2026 Playlist Bridge contributors

package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/citytrip/playlistbridge/pkg/playlist"
)

const (
	// PlaceholderTitle and PlaceholderDescription fill in payloads that
	// arrive without one.
	PlaceholderTitle       = "Untitled Playlist"
	PlaceholderDescription = "No description"

	// embedColor matches the blue the frontend has always used.
	embedColor = 3447003

	maxVenuePreview = 3
	maxRoutePreview = 2
)

// Button custom-ID prefixes. The submission ID is appended so the
// interaction handler can recover the cached payload.
const (
	ShowVenuesPrefix = "show_venues_"
	ShowRoutesPrefix = "show_routes_"
)

// Post is the rendered submission, ready to dispatch. Title doubles as the
// thread name when the destination is a forum channel.
type Post struct {
	Title      string
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// Build renders a playlist payload into a post. The embed always carries
// city, travel type, and venue/route counts; preview lists and buttons are
// added only when there is something to show.
func Build(p playlist.Payload, submissionID string) *Post {
	title := p.Title
	if title == "" {
		title = PlaceholderTitle
	}
	description := p.Description
	if description == "" {
		description = PlaceholderDescription
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		URL:         p.PageURL,
		Color:       embedColor,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "City", Value: orUnknown(p.City), Inline: true},
			{Name: "Travel Type", Value: orUnknown(p.TravelType), Inline: true},
			{Name: "Venues", Value: fmt.Sprintf("%d", len(p.RelatedVenues)), Inline: true},
			{Name: "Routes", Value: fmt.Sprintf("%d", len(p.RelatedRoutes)), Inline: true},
		},
	}

	// example.com URLs are sample data from the frontend's editor, never a
	// real image.
	if p.ImageURL != "" && !strings.Contains(p.ImageURL, "example.com") {
		embed.Image = &discordgo.MessageEmbedImage{URL: p.ImageURL}
	}

	if preview := previewList(p.RelatedVenues, maxVenuePreview); preview != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Venue Preview",
			Value: preview,
		})
	}
	if preview := previewList(p.RelatedRoutes, maxRoutePreview); preview != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Route Preview",
			Value: preview,
		})
	}

	return &Post{
		Title:      title,
		Embed:      embed,
		Components: buildButtons(p, submissionID),
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// previewList renders up to max names, one per line, with an "and N more"
// suffix when truncated. Returns "" for an empty list.
func previewList(places []playlist.Place, max int) string {
	if len(places) == 0 {
		return ""
	}
	var lines []string
	for i, place := range places {
		if i >= max {
			lines = append(lines, fmt.Sprintf("and %d more", len(places)-max))
			break
		}
		lines = append(lines, place.Name)
	}
	return strings.Join(lines, "\n")
}

func buildButtons(p playlist.Payload, submissionID string) []discordgo.MessageComponent {
	var buttons []discordgo.MessageComponent
	if len(p.RelatedVenues) > 0 {
		buttons = append(buttons, discordgo.Button{
			Label:    fmt.Sprintf("View Venues (%d)", len(p.RelatedVenues)),
			Style:    discordgo.PrimaryButton,
			CustomID: ShowVenuesPrefix + submissionID,
		})
	}
	if len(p.RelatedRoutes) > 0 {
		buttons = append(buttons, discordgo.Button{
			Label:    fmt.Sprintf("View Routes (%d)", len(p.RelatedRoutes)),
			Style:    discordgo.SecondaryButton,
			CustomID: ShowRoutesPrefix + submissionID,
		})
	}
	if len(buttons) == 0 {
		return nil
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}
