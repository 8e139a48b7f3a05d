package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/services"
	"github.com/studybuddy-app/StudyBuddy-Server/pkg/logger"
	"github.com/studybuddy-app/StudyBuddy-Server/pkg/middleware"
)

type ReminderHandler struct {
	Service *services.ReminderService
}

func NewReminderHandler(service *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{Service: service}
}

// GET /study-plans/{id}/reminders
func (h *ReminderHandler) GetPlanRemindersHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	reminders, err := h.Service.GetRemindersForPlan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		logger.Log.Errorf("Failed to fetch reminders: %v", err)
		http.Error(w, "Failed to get reminders", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(reminders)
}

// GET /reminders/upcoming?limit=10
func (h *ReminderHandler) GetUpcomingRemindersHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	reminders, err := h.Service.GetUpcomingReminders(r.Context(), time.Now(), limit)
	if err != nil {
		logger.Log.Errorf("Failed to fetch upcoming reminders: %v", err)
		http.Error(w, "Failed to get upcoming reminders", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(reminders)
}

// POST /reminders/{id}/dismiss
func (h *ReminderHandler) DismissReminderHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	if err := h.Service.DismissReminder(r.Context(), mux.Vars(r)["id"]); err != nil {
		logger.Log.Errorf("Failed to dismiss reminder: %v", err)
		http.Error(w, "Failed to dismiss reminder", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Reminder dismissed"})
}
