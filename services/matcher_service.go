package services

import (
	"strings"

	"BotAdmin/storage"
)

// MatchResult is the outcome of running a message against a client's keyword
// rules.
type MatchResult struct {
	Matched bool
	Reply   string
}

// MatcherService decides whether a canned reply answers an inbound message.
// Pure substring containment, case-insensitive; no scoring, no tokenization.
type MatcherService struct {
	store storage.Store
}

func NewMatcherService(store storage.Store) *MatcherService {
	return &MatcherService{store: store}
}

// Match tests the message against the client's active rules in insertion
// order and returns the first hit. A client with no rules never matches.
func (s *MatcherService) Match(clientID uint, messageText string) (MatchResult, error) {
	content := strings.ToLower(messageText)

	responses, err := s.store.GetCustomResponsesByClientID(clientID)
	if err != nil {
		return MatchResult{}, err
	}

	for _, response := range responses {
		if !response.IsActive {
			continue
		}
		keyword := strings.ToLower(strings.TrimSpace(response.Keyword))
		if keyword == "" {
			// empty keywords are rejected at creation; never let one match everything
			continue
		}
		if strings.Contains(content, keyword) {
			return MatchResult{Matched: true, Reply: response.Response}, nil
		}
	}

	return MatchResult{}, nil
}
