package usecase

import (
	"context"
	"strings"
	"sync"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/domain/repository"
	"reviewdesk/pkg/errors"
	"reviewdesk/pkg/logger"
)

const (
	// Trigger prefixes every shortcut token.
	Trigger = "/"

	// Placeholder tokens substituted at expansion time. Substitution
	// is a plain textual replace, not a parser.
	PlaceholderFirstName = "#FIRST_NAME"
	PlaceholderPageName  = "#PAGE_NAME"

	// Fallback when no customer context is available.
	fallbackCustomerName = "Customer"

	maxSuggestions = 3
)

// Suggestion is one candidate completion offered while typing.
type Suggestion struct {
	Shortcut string `json:"shortcut"`
	Message  string `json:"message"`
}

// QuickReplyUseCase owns the reviewer's template cache and the shortcut
// detection/expansion rules. Templates are loaded once per session and
// the cache is only mutated after a CRUD round trip succeeds; message
// sends are optimistic, template edits are not.
type QuickReplyUseCase struct {
	repo     repository.QuickReplyRepository
	userID   string
	pageName string

	mu      sync.Mutex
	replies []*entity.QuickReply
}

func NewQuickReplyUseCase(repo repository.QuickReplyRepository, userID, pageName string) *QuickReplyUseCase {
	return &QuickReplyUseCase{
		repo:     repo,
		userID:   userID,
		pageName: pageName,
	}
}

func (uc *QuickReplyUseCase) Load(ctx context.Context) error {
	replies, err := uc.repo.ListByUser(ctx, uc.userID)
	if err != nil {
		logger.Error("Failed to load quick replies: %v", err)
		return err
	}

	uc.mu.Lock()
	uc.replies = replies
	uc.mu.Unlock()
	return nil
}

func (uc *QuickReplyUseCase) QuickReplies() []*entity.QuickReply {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	snapshot := make([]*entity.QuickReply, len(uc.replies))
	copy(snapshot, uc.replies)
	return snapshot
}

func (uc *QuickReplyUseCase) Create(ctx context.Context, shortcut, message string) (*entity.QuickReply, error) {
	if err := validateQuickReply(shortcut, message); err != nil {
		return nil, err
	}

	created, err := uc.repo.Create(ctx, &entity.QuickReply{
		Shortcut: shortcut,
		Message:  message,
		UserID:   uc.userID,
	})
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	uc.replies = append(uc.replies, created)
	uc.mu.Unlock()
	return created, nil
}

func (uc *QuickReplyUseCase) Update(ctx context.Context, id, shortcut, message string) (*entity.QuickReply, error) {
	if err := validateQuickReply(shortcut, message); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Update(ctx, id, &entity.QuickReply{
		ID:       id,
		Shortcut: shortcut,
		Message:  message,
		UserID:   uc.userID,
	})
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	for i, reply := range uc.replies {
		if reply.ID == id {
			uc.replies[i] = updated
			break
		}
	}
	uc.mu.Unlock()
	return updated, nil
}

func (uc *QuickReplyUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.mu.Lock()
	for i, reply := range uc.replies {
		if reply.ID == id {
			uc.replies = append(uc.replies[:i], uc.replies[i+1:]...)
			break
		}
	}
	uc.mu.Unlock()
	return nil
}

// Suggest returns up to three candidate completions for the token the
// reviewer is currently typing. Matching is a case-insensitive
// substring test against the shortcut, ranked by insertion order.
func (uc *QuickReplyUseCase) Suggest(input string) []Suggestion {
	words := strings.Split(input, " ")
	lastWord := words[len(words)-1]

	if !strings.HasPrefix(lastWord, Trigger) || len(lastWord) <= 1 {
		return nil
	}

	needle := strings.ToLower(lastWord)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	var suggestions []Suggestion
	for _, reply := range uc.replies {
		if strings.Contains(strings.ToLower(reply.Shortcut), needle) {
			suggestions = append(suggestions, Suggestion{
				Shortcut: reply.Shortcut,
				Message:  reply.Message,
			})
			if len(suggestions) == maxSuggestions {
				break
			}
		}
	}
	return suggestions
}

// ByShortcut returns the template exactly matching the shortcut, or nil.
func (uc *QuickReplyUseCase) ByShortcut(shortcut string) *entity.QuickReply {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.byShortcutLocked(shortcut)
}

// ExpandOnSpace handles the whitespace key-press path: when the last
// token is exactly a known shortcut, it is replaced in place with the
// substituted template plus a trailing space. The second return value
// reports whether an expansion happened, so the caller can suppress the
// default space insertion.
func (uc *QuickReplyUseCase) ExpandOnSpace(input, customerName string) (string, bool) {
	words := strings.Split(input, " ")
	lastWord := words[len(words)-1]

	if !strings.HasPrefix(lastWord, Trigger) {
		return input, false
	}

	uc.mu.Lock()
	reply := uc.byShortcutLocked(lastWord)
	uc.mu.Unlock()
	if reply == nil {
		return input, false
	}

	words[len(words)-1] = uc.substitute(reply.Message, customerName)
	return strings.Join(words, " ") + " ", true
}

// ApplySuggestion handles the explicit suggestion-click path: the last
// token is replaced with the chosen template's expansion.
func (uc *QuickReplyUseCase) ApplySuggestion(input, shortcut, customerName string) (string, error) {
	uc.mu.Lock()
	reply := uc.byShortcutLocked(shortcut)
	uc.mu.Unlock()
	if reply == nil {
		return "", errors.NotFound("Quick reply", nil)
	}

	words := strings.Split(input, " ")
	words[len(words)-1] = uc.substitute(reply.Message, customerName)
	return strings.Join(words, " ") + " ", nil
}

// ExpandAll handles the submission path: every whitespace-delimited
// token that exactly matches a known shortcut is expanded independently
// before the message is sent.
func (uc *QuickReplyUseCase) ExpandAll(input, customerName string) string {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	words := strings.Split(input, " ")
	for i, word := range words {
		if !strings.HasPrefix(word, Trigger) {
			continue
		}
		if reply := uc.byShortcutLocked(word); reply != nil {
			words[i] = uc.substitute(reply.Message, customerName)
		}
	}
	return strings.Join(words, " ")
}

func (uc *QuickReplyUseCase) byShortcutLocked(shortcut string) *entity.QuickReply {
	for _, reply := range uc.replies {
		if reply.Shortcut == shortcut {
			return reply
		}
	}
	return nil
}

func (uc *QuickReplyUseCase) substitute(message, customerName string) string {
	if customerName == "" {
		customerName = fallbackCustomerName
	}
	expanded := strings.ReplaceAll(message, PlaceholderFirstName, customerName)
	return strings.ReplaceAll(expanded, PlaceholderPageName, uc.pageName)
}

// Rejected before any network call is made.
func validateQuickReply(shortcut, message string) error {
	if shortcut == "" || message == "" {
		return errors.Validation("Shortcut and message are required")
	}
	if !strings.HasPrefix(shortcut, Trigger) {
		return errors.Validation("Shortcut must start with '" + Trigger + "'")
	}
	if strings.Contains(shortcut, " ") {
		return errors.Validation("Shortcut must not contain spaces")
	}
	return nil
}
