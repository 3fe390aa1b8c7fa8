// Package chat держит состояние разговора с Mimi в рамках одной сессии
// логина: транскрипт, счётчик вопросов, одноразовый ответ на дневник и
// одноразовую генерацию предложенных активностей. Состояние живёт только
// в памяти процесса и умирает вместе с сессией.
package chat

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	RoleUser = "user"
	RoleMimi = "mimi"

	// После третьего вопроса Mimi один раз предлагает две активности
	SuggestionTrigger = 3
	// Десятый ответ - последний; одиннадцатый вопрос не принимается
	MaxQuestions = 10
)

var (
	ErrAwaitingJournal = errors.New("chat: no journal entry submitted this session")
	ErrLimitReached    = errors.New("chat: question limit reached for this session")
)

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Completer отвечает на реплику пользователя с учётом истории.
type Completer func(ctx context.Context, prompt string, history []Turn) (string, error)

// Suggester выводит из транскрипта ровно две предлагаемые активности.
type Suggester func(ctx context.Context, history []Turn) ([]Suggestion, error)

type Session struct {
	mu sync.Mutex

	ID       string
	UserID   uint
	lastSeen time.Time

	journalText      string
	journalResponded bool

	history       []Turn
	questionCount int

	suggestions     []Suggestion
	suggestionsDone bool
	suggestionNote  string
}

// SetJournal передаёт сессии текст дневника за сегодня. Повторная отправка
// обновляет текст, но одноразовый ответ Mimi на дневник не повторяется.
func (s *Session) SetJournal(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journalText = text
}

// RespondToJournal выдаёт ровно один ответ Mimi на дневниковую запись.
// Повторные вызовы (страница перерисовалась) ничего не делают и возвращают
// responded=false.
func (s *Session) RespondToJournal(ctx context.Context, complete Completer) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.journalText == "" {
		return "", false, ErrAwaitingJournal
	}
	if s.journalResponded {
		return "", false, nil
	}

	prompt := "Based on the user's journal entry today:\n\n'" + s.journalText +
		"'\n\nAct as a therapist and provide supportive advice and guidance using CBT techniques."

	response, err := complete(ctx, prompt, s.historyCopy())
	if err != nil {
		return "", false, err
	}

	s.history = append(s.history, Turn{Role: RoleMimi, Content: response})
	s.journalResponded = true
	return response, true, nil
}

// Ask проводит один вопрос пользователя через гейт: проверяет лимит,
// инкрементирует счётчик, дописывает обе реплики в транскрипт и по
// достижении трёх вопросов один раз запускает генерацию предложений.
// Неудачная генерация не блокирует разговор: список остаётся пустым.
func (s *Session) Ask(ctx context.Context, message string, complete Completer, suggest Suggester) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.journalResponded {
		return "", ErrAwaitingJournal
	}
	if s.questionCount >= MaxQuestions {
		return "", ErrLimitReached
	}

	response, err := complete(ctx, message, s.historyCopy())
	if err != nil {
		return "", err
	}

	s.questionCount++
	s.history = append(s.history,
		Turn{Role: RoleUser, Content: message},
		Turn{Role: RoleMimi, Content: response},
	)

	if s.questionCount >= SuggestionTrigger && !s.suggestionsDone {
		// Флаг ставится до вызова: генерация срабатывает ровно один раз
		// за сессию, даже если она провалилась.
		s.suggestionsDone = true
		suggestions, err := suggest(ctx, s.historyCopy())
		if err != nil {
			s.suggestionNote = "Mimi couldn't come up with suggestions this time."
		} else {
			s.suggestions = suggestions
		}
	}

	return response, nil
}

func (s *Session) historyCopy() []Turn {
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// View - снимок состояния сессии для выдачи клиенту.
type View struct {
	State            string       `json:"state"`
	History          []Turn       `json:"history"`
	QuestionsLeft    int          `json:"questions_left"`
	JournalSubmitted bool         `json:"journal_submitted"`
	Suggestions      []Suggestion `json:"suggestions"`
	SuggestionNote   string       `json:"suggestion_note,omitempty"`
}

func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := "awaiting_journal"
	switch {
	case s.questionCount >= MaxQuestions:
		state = "limit_reached"
	case s.journalResponded:
		state = "conversing"
	}

	return View{
		State:            state,
		History:          s.historyCopy(),
		QuestionsLeft:    MaxQuestions - s.questionCount,
		JournalSubmitted: s.journalText != "",
		Suggestions:      append([]Suggestion(nil), s.suggestions...),
		SuggestionNote:   s.suggestionNote,
	}
}

// Suggested возвращает предложение по индексу, когда пользователь
// планирует его в календарь.
func (s *Session) Suggested(idx int) (Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.suggestions) {
		return Suggestion{}, false
	}
	return s.suggestions[idx], true
}

// Store раздаёт сессии по session_id из JWT. Новый логин получает новый
// session_id, а с ним и чистый счётчик.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Sessions - общий стор процесса, по образцу остальных пакетных синглтонов.
var Sessions = NewStore()

func (st *Store) Get(sessionID string, userID uint) *Session {
	st.mu.RLock()
	s, ok := st.sessions[sessionID]
	st.mu.RUnlock()
	if ok {
		s.touch()
		return s
	}

	st.mu.Lock()
	if s, ok := st.sessions[sessionID]; ok {
		st.mu.Unlock()
		s.touch()
		return s
	}
	s = &Session{ID: sessionID, UserID: userID, lastSeen: time.Now()}
	st.sessions[sessionID] = s
	st.mu.Unlock()
	return s
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// Sweep удаляет сессии, к которым не обращались дольше maxAge. JWT с тем же
// session_id к этому моменту уже истёк, так что состояние никому не доступно.
func (st *Store) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.idleSince(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor запускает фоновую чистку стора: без неё карта сессий росла бы
// на каждый логин до конца жизни процесса.
func (st *Store) StartJanitor(interval, maxAge time.Duration) {
	go func() {
		for range time.Tick(interval) {
			st.Sweep(maxAge)
		}
	}()
}
