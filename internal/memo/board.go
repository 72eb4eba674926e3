// Package memo models the client-side memo board. Memos live only in
// memory for the lifetime of one board; nothing here talks to the server
// or survives a restart.
package memo

import (
	"strings"
	"sync"
	"time"
)

// Palette is the fixed set of cosmetic color tags; new memos cycle
// through it in order.
var Palette = []string{
	"bg-secondary",
	"bg-accent",
	"bg-primary/10",
	"bg-chart-4/20",
}

const defaultTitle = "Untitled"

type Memo struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Starred   bool      `json:"starred"`
	CreatedAt time.Time `json:"createdAt"`
	Color     string    `json:"color"`
}

type Board struct {
	mu     sync.Mutex
	memos  []Memo
	nextID int64
	colorI int
}

func NewBoard() *Board {
	return &Board{nextID: 1}
}

// Add prepends a new memo. A memo with neither title nor content is a
// no-op, matching the create form behaviour.
func (b *Board) Add(title, content string) (Memo, bool) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(content) == "" {
		return Memo{}, false
	}

	if title == "" {
		title = defaultTitle
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	m := Memo{
		ID:        b.nextID,
		Title:     title,
		Content:   content,
		Starred:   false,
		CreatedAt: time.Now(),
		Color:     Palette[b.colorI%len(Palette)],
	}

	b.nextID++
	b.colorI++

	b.memos = append([]Memo{m}, b.memos...)

	return m, true
}

func (b *Board) Delete(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, m := range b.memos {
		if m.ID == id {
			b.memos = append(b.memos[:i], b.memos[i+1:]...)
			return true
		}
	}

	return false
}

func (b *Board) ToggleStar(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.memos {
		if b.memos[i].ID == id {
			b.memos[i].Starred = !b.memos[i].Starred
			return true
		}
	}

	return false
}

// Filter returns memos whose title or content contains query,
// case-insensitively. An empty query matches everything.
func (b *Board) Filter(query string) []Memo {
	q := strings.ToLower(query)

	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Memo, 0, len(b.memos))

	for _, m := range b.memos {
		if q == "" ||
			strings.Contains(strings.ToLower(m.Title), q) ||
			strings.Contains(strings.ToLower(m.Content), q) {
			out = append(out, m)
		}
	}

	return out
}

func (b *Board) All() []Memo {
	return b.Filter("")
}

// NewSeededBoard returns a board preloaded with the three starter memos
// shown on first visit, oldest last and the first one starred.
func NewSeededBoard() *Board {
	b := NewBoard()

	b.Add("Shopping list", "Milk, eggs, bread\nVegetables, fruit\nHousehold goods")
	b.Add("Idea notes", "Sketch a new app design\nUse bright colors\nKeep the UI friendly")
	b.Add("Today's tasks", "Prepare for the project meeting\nCook dinner\nWork out")

	b.ToggleStar(3)

	return b
}
