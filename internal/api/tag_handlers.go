package api

import (
	"net/http"

	"github.com/vytor/studyflash/internal/models"
)

type topicResolution struct {
	Input   string      `json:"input"`
	Matched bool        `json:"matched"`
	Tag     *models.Tag `json:"tag"`
}

type resolveResponse struct {
	Topic   *topicResolution `json:"topic,omitempty"`
	Concept *string          `json:"concept,omitempty"`
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version": s.Tags.Version(),
		"tags":    s.Tags.Tags(),
	})
}

// handleResolveTags canonicalizes ?topic= against the Golden List and ?concept= to PascalCase.
func (s *Server) handleResolveTags(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var res resolveResponse

	if q.Has("topic") {
		input := q.Get("topic")
		tr := &topicResolution{Input: input}
		if tag, ok := s.Tags.TopicTag(input); ok {
			tr.Matched = true
			tr.Tag = &tag
		}
		res.Topic = tr
	}
	if q.Has("concept") {
		concept := s.Tags.ResolveConceptTag(q.Get("concept"))
		res.Concept = &concept
	}
	writeJSON(w, http.StatusOK, res)
}
