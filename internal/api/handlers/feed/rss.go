package feed

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/feeds"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/handlers"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/actors"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/posts"
)

const feedItemLimit = 50

// RSSHandler renders an actor's public posts as an RSS feed
type RSSHandler struct {
	actorService actors.Service
	postService  posts.Service
	baseURL      string
}

func NewRSSHandler(actorService actors.Service, postService posts.Service, baseURL string) *RSSHandler {
	return &RSSHandler{
		actorService: actorService,
		postService:  postService,
		baseURL:      baseURL,
	}
}

// HandleRSS handles GET /api/actors/{ref}/feed.rss
func (h *RSSHandler) HandleRSS(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorService.Resolve(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		handlers.WriteError(w, http.StatusNotFound, "ActorNotFound", "No actor matches this reference")
		return
	}

	items, err := h.postService.ListByAuthor(r.Context(), actor.ID, true, feedItemLimit, 0)
	if err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
		return
	}

	rssFeed := &feeds.Feed{
		Title:       fmt.Sprintf("Posts by %s", actor.Handle),
		Link:        &feeds.Link{Href: actor.URI},
		Description: actor.Summary,
		Author:      &feeds.Author{Name: actor.Handle},
		Created:     actor.CreatedAt,
	}

	for _, post := range items {
		rssFeed.Items = append(rssFeed.Items, &feeds.Item{
			Id:          post.URI,
			Title:       post.Content,
			Link:        &feeds.Link{Href: post.URI},
			Description: post.Content,
			Author:      &feeds.Author{Name: actor.Handle},
			Created:     post.CreatedAt,
		})
	}

	out, err := rssFeed.ToRss()
	if err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(out)); err != nil {
		// Client went away mid-write; nothing to recover
		return
	}
}
