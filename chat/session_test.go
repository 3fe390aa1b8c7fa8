package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoCompleter() Completer {
	n := 0
	return func(ctx context.Context, prompt string, history []Turn) (string, error) {
		n++
		return fmt.Sprintf("response %d", n), nil
	}
}

func fixedSuggester(calls *int) Suggester {
	return func(ctx context.Context, history []Turn) ([]Suggestion, error) {
		*calls++
		return []Suggestion{
			{Title: "Go for a walk", Description: "A short walk to get some fresh air."},
			{Title: "Try 10 minutes of meditation", Description: "A quick session to calm your mind."},
		}, nil
	}
}

func respondedSession(t *testing.T) *Session {
	t.Helper()
	s := &Session{ID: "sess", UserID: 1}
	s.SetJournal("Today was stressful but I managed.")

	reply, responded, err := s.RespondToJournal(context.Background(), echoCompleter())
	require.NoError(t, err)
	require.True(t, responded)
	require.NotEmpty(t, reply)
	return s
}

func TestAskBeforeJournalRefused(t *testing.T) {
	s := &Session{ID: "sess", UserID: 1}
	_, err := s.Ask(context.Background(), "hi", echoCompleter(), fixedSuggester(new(int)))
	assert.ErrorIs(t, err, ErrAwaitingJournal)
}

func TestJournalResponseIsOneShot(t *testing.T) {
	s := respondedSession(t)

	_, responded, err := s.RespondToJournal(context.Background(), echoCompleter())
	require.NoError(t, err)
	assert.False(t, responded)

	snap := s.Snapshot()
	assert.Equal(t, "conversing", snap.State)
	require.Len(t, snap.History, 1)
	assert.Equal(t, RoleMimi, snap.History[0].Role)
}

func TestSuggestionTriggersOnceAtThirdQuestion(t *testing.T) {
	s := respondedSession(t)
	complete := echoCompleter()
	calls := 0
	suggest := fixedSuggester(&calls)

	for i := 0; i < 2; i++ {
		_, err := s.Ask(context.Background(), "question", complete, suggest)
		require.NoError(t, err)
		assert.Zero(t, calls)
	}

	_, err := s.Ask(context.Background(), "third question", complete, suggest)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, s.Snapshot().Suggestions, 2)

	// Дальнейшие вопросы и повторные снимки состояния не перезапускают генерацию
	_, err = s.Ask(context.Background(), "fourth question", complete, suggest)
	require.NoError(t, err)
	_ = s.Snapshot()
	_ = s.Snapshot()
	assert.Equal(t, 1, calls)
}

func TestSuggestionFailureIsSoftAndNotRetried(t *testing.T) {
	s := respondedSession(t)
	complete := echoCompleter()
	calls := 0
	failing := func(ctx context.Context, history []Turn) ([]Suggestion, error) {
		calls++
		return nil, errors.New("upstream error")
	}

	for i := 0; i < 3; i++ {
		_, err := s.Ask(context.Background(), "question", complete, failing)
		require.NoError(t, err)
	}

	snap := s.Snapshot()
	assert.Empty(t, snap.Suggestions)
	assert.NotEmpty(t, snap.SuggestionNote)
	assert.Equal(t, 1, calls)

	// Разговор продолжается как ни в чём не бывало
	_, err := s.Ask(context.Background(), "another question", complete, failing)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestTenthAnswerIsLast(t *testing.T) {
	s := respondedSession(t)
	complete := echoCompleter()
	suggest := fixedSuggester(new(int))

	for i := 0; i < MaxQuestions; i++ {
		reply, err := s.Ask(context.Background(), fmt.Sprintf("question %d", i+1), complete, suggest)
		require.NoError(t, err)
		require.NotEmpty(t, reply)
	}

	snap := s.Snapshot()
	assert.Equal(t, "limit_reached", snap.State)
	assert.Zero(t, snap.QuestionsLeft)
	// 1 ответ на дневник + 10 пар вопрос-ответ
	assert.Len(t, snap.History, 1+2*MaxQuestions)

	_, err := s.Ask(context.Background(), "one more?", complete, suggest)
	assert.ErrorIs(t, err, ErrLimitReached)
	assert.Len(t, s.Snapshot().History, 1+2*MaxQuestions)
}

func TestFailedCompletionDoesNotBurnAQuestion(t *testing.T) {
	s := respondedSession(t)
	failing := func(ctx context.Context, prompt string, history []Turn) (string, error) {
		return "", errors.New("api down")
	}

	_, err := s.Ask(context.Background(), "question", failing, fixedSuggester(new(int)))
	require.Error(t, err)

	snap := s.Snapshot()
	assert.Equal(t, MaxQuestions, snap.QuestionsLeft)
	assert.Len(t, snap.History, 1)
}

func TestStoreNewSessionResetsCounter(t *testing.T) {
	store := NewStore()

	first := store.Get("login-1", 7)
	first.SetJournal("entry")
	_, _, err := first.RespondToJournal(context.Background(), echoCompleter())
	require.NoError(t, err)
	_, err = first.Ask(context.Background(), "q", echoCompleter(), fixedSuggester(new(int)))
	require.NoError(t, err)

	assert.Same(t, first, store.Get("login-1", 7))

	// Новый логин = новый session id = чистое состояние
	second := store.Get("login-2", 7)
	snap := second.Snapshot()
	assert.Equal(t, "awaiting_journal", snap.State)
	assert.Equal(t, MaxQuestions, snap.QuestionsLeft)
}

func TestSuggestedByIndex(t *testing.T) {
	s := respondedSession(t)
	complete := echoCompleter()
	suggest := fixedSuggester(new(int))

	for i := 0; i < 3; i++ {
		_, err := s.Ask(context.Background(), "question", complete, suggest)
		require.NoError(t, err)
	}

	got, ok := s.Suggested(0)
	require.True(t, ok)
	assert.Equal(t, "Go for a walk", got.Title)

	_, ok = s.Suggested(5)
	assert.False(t, ok)
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	store := NewStore()

	stale := store.Get("stale-login", 1)
	stale.mu.Lock()
	stale.lastSeen = time.Now().Add(-25 * time.Hour)
	stale.mu.Unlock()

	fresh := store.Get("fresh-login", 2)

	removed := store.Sweep(24 * time.Hour)
	assert.Equal(t, 1, removed)

	// Живая сессия осталась той же, протухшая пересоздаётся с нуля
	assert.Same(t, fresh, store.Get("fresh-login", 2))
	assert.NotSame(t, stale, store.Get("stale-login", 1))
}

func TestGetRefreshesLastSeen(t *testing.T) {
	store := NewStore()

	s := store.Get("login", 1)
	s.mu.Lock()
	s.lastSeen = time.Now().Add(-25 * time.Hour)
	s.mu.Unlock()

	// Любое обращение по session_id продлевает жизнь состояния
	store.Get("login", 1)
	assert.Zero(t, store.Sweep(24*time.Hour))
	assert.Same(t, s, store.Get("login", 1))
}
