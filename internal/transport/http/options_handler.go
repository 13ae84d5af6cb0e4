package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"civics-quiz-service/internal/app"
	"civics-quiz-service/internal/domain"
)

// OptionsHandler serves the question counts available for the configured pool.
type OptionsHandler struct {
	service *app.QuizService
}

func NewOptionsHandler(service *app.QuizService) *OptionsHandler {
	return &OptionsHandler{service: service}
}

func (h *OptionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	options, err := h.service.QuestionCountOptions(r.Context())
	switch {
	case errors.Is(err, domain.ErrPoolNotFound), errors.Is(err, domain.ErrInvalidPoolSize):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		log.Printf("question count options: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(options); err != nil {
		log.Printf("encode options: %v", err)
	}
}
