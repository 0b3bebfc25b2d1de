package acceptance

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"cardsnap/pkg/models"
)

// FakeBackend is an in-process stand-in for the card service, implementing
// the four routes the client consumes with an in-memory store.
type FakeBackend struct {
	mu     sync.Mutex
	cards  []models.Card
	server *httptest.Server
}

func NewFakeBackend() *FakeBackend {
	b := &FakeBackend{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/cards", b.handleUpload)
	mux.HandleFunc("POST /api/cards/{id}/context", b.handleContext)
	mux.HandleFunc("GET /api/cards", b.handleList)
	mux.HandleFunc("GET /api/cards/{id}", b.handleGet)

	b.server = httptest.NewServer(mux)
	return b
}

func (b *FakeBackend) URL() string {
	return b.server.URL
}

func (b *FakeBackend) Close() {
	b.server.Close()
}

func (b *FakeBackend) CardCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.cards)
}

func (b *FakeBackend) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeDetail(w, http.StatusBadRequest, "No file uploaded.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "No file uploaded.")
		return
	}
	file.Close()

	b.mu.Lock()
	cardID := fmt.Sprintf("card-%03d", len(b.cards)+1)

	// "Extraction" derives a name from the uploaded filename so the flow
	// test can tell cards apart.
	stem := strings.TrimSuffix(header.Filename, "."+extOf(header.Filename))
	card := models.Card{
		ID:             cardID,
		FirstName:      capitalize(stem),
		LastName:       "Example",
		Company:        "Example Corp",
		Email:          stem + "@example.test",
		CapturedAt:     "2026-08-30T10:00:00+00:00",
		SourceImageURL: "/media/" + cardID + "_source.png",
		RawOCRJSON:     "{}",
	}
	b.cards = append(b.cards, card)
	b.mu.Unlock()

	writeJSON(w, card)
}

func (b *FakeBackend) handleContext(w http.ResponseWriter, r *http.Request) {
	var payload models.CardContext
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	cardID := r.PathValue("id")

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.cards {
		if b.cards[i].ID == cardID {
			b.cards[i].MeetingContext = payload.MeetingContext
			b.cards[i].Priorities = payload.Priorities
			b.cards[i].PersonalNotes = payload.PersonalNotes
			b.cards[i].SummaryImageURL = "/media/" + cardID + "_summary.png"
			writeJSON(w, b.cards[i])
			return
		}
	}

	writeDetail(w, http.StatusNotFound, "Card not found")
}

func (b *FakeBackend) handleList(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cards := b.cards
	if cards == nil {
		cards = []models.Card{}
	}
	writeJSON(w, cards)
}

func (b *FakeBackend) handleGet(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("id")

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, card := range b.cards {
		if card.ID == cardID {
			writeJSON(w, card)
			return
		}
	}

	writeDetail(w, http.StatusNotFound, "Card not found")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func extOf(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}
